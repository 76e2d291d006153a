package asr

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/models"
)

type retryBackend struct {
	next     Backend
	attempts int
	backoff  time.Duration
	logger   logger.Logger
}

// WithRetry retries failed calls with exponential backoff. With attempts
// of 1 or less the backend is returned unchanged.
func WithRetry(b Backend, attempts int, backoff time.Duration, log logger.Logger) Backend {
	if attempts <= 1 {
		return b
	}
	return &retryBackend{next: b, attempts: attempts, backoff: backoff, logger: log}
}

func (r *retryBackend) Name() string {
	return r.next.Name()
}

func (r *retryBackend) Transcribe(ctx context.Context, unit models.AudioUnit) ([]models.TranscriptSegment, error) {
	wait := r.backoff
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		var segs []models.TranscriptSegment
		segs, err = r.next.Transcribe(ctx, unit)
		if err == nil {
			return segs, nil
		}
		if ctx.Err() != nil || errors.Is(err, models.ErrConfiguration) || attempt == r.attempts {
			break
		}

		r.logger.Warn(ctx, "%s attempt %d/%d failed for %s: %v (retrying in %s)", r.next.Name(), attempt, r.attempts, unit.Path, err, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
	return nil, err
}
