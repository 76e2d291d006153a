package processor

import (
	"context"
	"os"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

// cleanupScratch removes the chunks of a run, logs warning if fails
func (p *implProcessor) cleanupScratch(ctx context.Context, decision models.ChunkingDecision, scratchDir string) {
	p.deps.Chunker.Cleanup(ctx, decision)

	// Prepare may have created the directory without splitting
	if err := os.RemoveAll(scratchDir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup scratch dir %s: %v", scratchDir, err)
	}
}
