package processor

import (
	"github.com/nguyentantai21042004/speechnote/internal/align"
	"github.com/nguyentantai21042004/speechnote/internal/asr"
	"github.com/nguyentantai21042004/speechnote/internal/chunker"
	"github.com/nguyentantai21042004/speechnote/internal/diarize"
	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/metrics"
	"github.com/nguyentantai21042004/speechnote/internal/storage"
	"github.com/nguyentantai21042004/speechnote/internal/summarizer"
)

// Options holds the settings the processor applies on every call
type Options struct {
	NumSpeakers int
	Policy      align.Policy
	// WatchNote is the note that files from the inbox are filed under
	WatchNote string
	// SummarizeOnWatch also summarizes inbox files
	SummarizeOnWatch bool
}

// Dependencies are the collaborators of a Processor
type Dependencies struct {
	Chunker    chunker.Chunker
	Acquirer   asr.Acquirer
	Diarizer   diarize.Diarizer
	Summarizer summarizer.Summarizer
	Files      storage.FileManager
	Metrics    *metrics.Metrics
}

type implProcessor struct {
	opts Options
	deps Dependencies

	logger logger.Logger
}

// New creates a new Processor instance
func New(opts Options, deps Dependencies, log logger.Logger) Processor {
	if opts.NumSpeakers < 0 {
		opts.NumSpeakers = 0
	}
	if opts.Policy == "" {
		opts.Policy = align.PolicyDrop
	}
	return &implProcessor{
		opts:   opts,
		deps:   deps,
		logger: log,
	}
}
