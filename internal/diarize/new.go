package diarize

import (
	"fmt"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/media"
	"github.com/nguyentantai21042004/speechnote/internal/models"
	"github.com/nguyentantai21042004/speechnote/pkg/executor"
)

type implDiarizer struct {
	opts     Options
	executor executor.Executor
	media    media.Tool
	logger   logger.Logger
}

// New creates a Diarizer running the pyannote helper script
func New(opts Options, exec executor.Executor, tool media.Tool, log logger.Logger) (Diarizer, error) {
	if opts.HuggingFaceToken == "" {
		return nil, fmt.Errorf("%w: HUGGINGFACE_AUTH_TOKEN is empty", models.ErrConfiguration)
	}
	if opts.Script == "" {
		return nil, fmt.Errorf("%w: diarization script is empty", models.ErrConfiguration)
	}
	if opts.Python == "" {
		opts.Python = "python3"
	}
	return &implDiarizer{
		opts:     opts,
		executor: exec,
		media:    tool,
		logger:   log,
	}, nil
}
