package chunker

import (
	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/media"
)

type implChunker struct {
	opts   Options
	media  media.Tool
	logger logger.Logger
}

// New creates a Chunker cutting chunks with the given media tool
func New(opts Options, tool media.Tool, log logger.Logger) Chunker {
	if opts.Format == "" {
		opts.Format = "mp3"
	}
	return &implChunker{
		opts:   opts,
		media:  tool,
		logger: log,
	}
}
