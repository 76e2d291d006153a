package chunker

import (
	"context"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// Chunker decides whether a recording must be split for the ASR service
// and produces the chunks when it does
type Chunker interface {
	// Prepare returns the units to transcribe. Chunks are written under
	// scratchDir, which the caller owns for the duration of the call.
	Prepare(ctx context.Context, unit models.AudioUnit, scratchDir string) (models.ChunkingDecision, error)
	// Cleanup removes the scratch files of a decision. Failures are logged only.
	Cleanup(ctx context.Context, decision models.ChunkingDecision)
}

// Options configures the split threshold and chunk length
type Options struct {
	ThresholdMB  float64
	SplitSeconds float64
	Format       string
}
