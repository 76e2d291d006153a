package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// Summarizer turns an aligned transcript into a natural-language summary
type Summarizer interface {
	Summarize(ctx context.Context, transcript models.Transcript) (string, error)
}

// Generator is a single-prompt text generation backend
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
