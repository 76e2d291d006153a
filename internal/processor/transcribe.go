package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/speechnote/internal/align"
	"github.com/nguyentantai21042004/speechnote/internal/diarize"
	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/models"
)

func (p *implProcessor) Transcribe(ctx context.Context, audioPath string, numSpeakers int) (transcript models.Transcript, err error) {
	if logger.RunID(ctx) == "" {
		ctx = logger.WithRunID(ctx, uuid.NewString())
	}
	runID := logger.RunID(ctx)
	startTime := time.Now()
	defer func() { p.deps.Metrics.RecordRun("transcribe", err == nil) }()

	if numSpeakers <= 0 {
		numSpeakers = p.opts.NumSpeakers
	}

	unit, err := audioUnit(audioPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info(ctx, "Starting transcription: %s (%.2fMB)", audioPath, unit.SizeMB())

	// Step 1: Split oversized audio
	scratchDir := p.deps.Files.ScratchDir(runID)
	var decision models.ChunkingDecision
	err = p.stage(ctx, "chunk", func() error {
		decision, err = p.deps.Chunker.Prepare(ctx, unit, scratchDir)
		return err
	})
	if err != nil {
		p.cleanupScratch(ctx, models.ChunkingDecision{}, scratchDir)
		return nil, fmt.Errorf("chunk audio: %w", err)
	}

	// Step 2: Transcribe every unit; chunks are not needed past this point
	var segments []models.TranscriptSegment
	err = p.stage(ctx, "asr", func() error {
		segments, err = p.deps.Acquirer.Acquire(ctx, decision.Units)
		return err
	})
	p.cleanupScratch(ctx, decision, scratchDir)
	if err != nil {
		return nil, fmt.Errorf("acquire transcript: %w", err)
	}

	// Step 3: Diarize the whole original file
	var raw string
	err = p.stage(ctx, "diarize", func() error {
		raw, err = p.deps.Diarizer.Diarize(ctx, audioPath, numSpeakers)
		return err
	})
	if err != nil {
		if errors.Is(err, models.ErrCollaborator) {
			p.deps.Metrics.RecordCollaboratorError("diarizer")
		}
		return nil, fmt.Errorf("diarize: %w", err)
	}

	// Step 4: Compress raw intervals into turns
	var turns []models.SpeakerTurn
	_ = p.stage(ctx, "compress", func() error {
		var malformed *diarize.Malformed
		turns, malformed = diarize.Compress(ctx, p.logger, raw)
		if malformed != nil {
			p.deps.Metrics.RecordDataQuality("malformed_diarization", malformed.Skipped)
		}
		return nil
	})

	// Step 5: Align segments to turns
	var result align.Result
	_ = p.stage(ctx, "align", func() error {
		result = align.Align(segments, turns, align.Options{Policy: p.opts.Policy})
		return nil
	})
	if n := len(result.Dropped); n > 0 {
		p.deps.Metrics.RecordDataQuality("unaligned_segment", n)
		if p.opts.Policy == align.PolicyUnattributed {
			p.logger.Warn(ctx, "%d segments overlap no speaker turn, labeled %s", n, align.UnattributedLabel)
		} else {
			p.logger.Warn(ctx, "%d segments overlap no speaker turn and were dropped", n)
		}
	}

	p.logger.Info(ctx, "Transcription completed: %d segments, %d turns, %d aligned lines in %s",
		len(segments), len(turns), len(result.Segments), time.Since(startTime).Round(time.Millisecond))

	if result.Segments == nil {
		return models.Transcript{}, nil
	}
	return result.Segments, nil
}

// stage times fn under the given stage label
func (p *implProcessor) stage(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.deps.Metrics.RecordStage(name, time.Since(start))
	if err != nil {
		p.logger.Error(ctx, "Stage %s failed: %v", name, err)
		return err
	}
	p.logger.Debug(ctx, "Stage %s done in %s", name, time.Since(start).Round(time.Millisecond))
	return nil
}
