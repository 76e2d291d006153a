package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
)

// ProcessNote orchestrates the whole pipeline for one recording of a note
func (p *implProcessor) ProcessNote(ctx context.Context, req NoteRequest) (*NoteResult, error) {
	startTime := time.Now()
	ctx = logger.WithRunID(ctx, uuid.NewString())

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing %s for note %s", req.AudioPath, req.Note)
	p.logger.Info(ctx, "========================================")

	// Step 1: Store audio under the note
	stored, err := p.importAudio(ctx, req.Note, req.AudioPath)
	if err != nil {
		return nil, err
	}
	result := &NoteResult{AudioPath: stored}

	// Step 2: Transcribe
	transcript, err := p.Transcribe(ctx, stored, req.NumSpeakers)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	result.Transcript = transcript

	// Step 3: Summarize before writing anything so a failure leaves the
	// previous transcript and summary in place
	if req.Summarize {
		summary, err := p.Summarize(ctx, transcript)
		if err != nil {
			return nil, err
		}
		result.Summary = summary
	}

	// Step 4: Persist transcript and summary together
	var summary *string
	if req.Summarize {
		summary = &result.Summary
	}
	if result.TranscriptPath, result.SummaryPath, err = p.deps.Files.SaveResults(req.Note, transcript, summary); err != nil {
		return nil, fmt.Errorf("save results: %w", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Transcript: %s (%d lines)", result.TranscriptPath, len(transcript))
	if result.SummaryPath != "" {
		p.logger.Info(ctx, "Summary: %s", result.SummaryPath)
	}
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return result, nil
}

// Process files an inbox recording under the watched note
func (p *implProcessor) Process(ctx context.Context, audioPath string) error {
	if p.opts.WatchNote == "" {
		return fmt.Errorf("no note configured for inbox files")
	}
	_, err := p.ProcessNote(ctx, NoteRequest{
		Note:      p.opts.WatchNote,
		AudioPath: audioPath,
		Summarize: p.opts.SummarizeOnWatch,
	})
	return err
}
