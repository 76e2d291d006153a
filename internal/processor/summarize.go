package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

func (p *implProcessor) Summarize(ctx context.Context, transcript models.Transcript) (summary string, err error) {
	defer func() { p.deps.Metrics.RecordRun("summarize", err == nil) }()

	err = p.stage(ctx, "summarize", func() error {
		summary, err = p.deps.Summarizer.Summarize(ctx, transcript)
		return err
	})
	if err != nil {
		var ce *models.CollaboratorError
		if errors.As(err, &ce) {
			p.deps.Metrics.RecordCollaboratorError(ce.Collaborator)
		}
		return "", fmt.Errorf("summarize: %w", err)
	}
	return summary, nil
}

func (p *implProcessor) SummarizeNote(ctx context.Context, note string) (string, error) {
	transcript, err := p.deps.Files.LoadTranscript(note)
	if err != nil {
		return "", fmt.Errorf("load transcript: %w", err)
	}

	summary, err := p.Summarize(ctx, transcript)
	if err != nil {
		return "", err
	}

	path, err := p.deps.Files.SaveSummary(note, summary)
	if err != nil {
		return "", fmt.Errorf("save summary: %w", err)
	}
	p.logger.Info(ctx, "Summary saved: %s", path)
	return summary, nil
}
