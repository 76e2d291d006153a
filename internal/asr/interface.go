package asr

import (
	"context"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// Backend transcribes a single audio unit. Returned segments are relative
// to the start of the unit.
type Backend interface {
	Transcribe(ctx context.Context, unit models.AudioUnit) ([]models.TranscriptSegment, error)
	Name() string
}

// Acquirer turns the units of a ChunkingDecision into one list of segments
// on the timeline of the original recording
type Acquirer interface {
	Acquire(ctx context.Context, units []models.AudioUnit) ([]models.TranscriptSegment, error)
}

// Options configures an Acquirer
type Options struct {
	// MaxParallel bounds concurrent backend calls. Values below 2 keep
	// calls sequential.
	MaxParallel int
}
