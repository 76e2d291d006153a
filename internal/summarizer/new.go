package summarizer

import (
	"github.com/nguyentantai21042004/speechnote/internal/logger"
)

type implSummarizer struct {
	generator Generator
	prompt    string
	logger    logger.Logger
}

// New creates a Summarizer that prefixes the rendered transcript with prompt
func New(gen Generator, prompt string, log logger.Logger) Summarizer {
	return &implSummarizer{
		generator: gen,
		prompt:    prompt,
		logger:    log,
	}
}
