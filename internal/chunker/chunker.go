package chunker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

var reChunkName = regexp.MustCompile(`^chunk_(\d+)\.[A-Za-z0-9]+$`)

func (c *implChunker) Prepare(ctx context.Context, unit models.AudioUnit, scratchDir string) (models.ChunkingDecision, error) {
	if unit.SizeBytes == 0 {
		info, err := os.Stat(unit.Path)
		if err != nil {
			return models.ChunkingDecision{}, fmt.Errorf("%w: stat audio: %v", models.ErrFilesystem, err)
		}
		unit.SizeBytes = info.Size()
	}

	decision := models.ChunkingDecision{SizeMB: unit.SizeMB()}
	c.logger.Debug(ctx, "File size: %.2fMB (threshold %.2fMB)", decision.SizeMB, c.opts.ThresholdMB)

	if !NeedsSplit(unit.SizeBytes, c.opts.ThresholdMB) {
		c.logger.Debug(ctx, "No split needed: %s", unit.Path)
		decision.Units = []models.AudioUnit{unit}
		return decision, nil
	}

	c.logger.Info(ctx, "Splitting %s into %.1f minute chunks", unit.Path, c.opts.SplitSeconds/60)

	total, err := c.media.ProbeDuration(ctx, unit.Path)
	if err != nil {
		return models.ChunkingDecision{}, fmt.Errorf("probe duration: %w", err)
	}
	spans := Plan(total, c.opts.SplitSeconds)
	if len(spans) == 0 {
		return models.ChunkingDecision{}, fmt.Errorf("no audio to split in %s (duration %.3fs)", unit.Path, total)
	}

	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return models.ChunkingDecision{}, fmt.Errorf("%w: create scratch dir: %v", models.ErrFilesystem, err)
	}
	decision.Split = true
	decision.ScratchDir = scratchDir

	for _, span := range spans {
		dst := filepath.Join(scratchDir, fmt.Sprintf("chunk_%04d.%s", span.Index, c.opts.Format))
		if err := c.media.ExtractSpan(ctx, unit.Path, dst, span.Start, span.Duration); err != nil {
			c.Cleanup(ctx, decision)
			return models.ChunkingDecision{}, fmt.Errorf("extract chunk %d: %w", span.Index, err)
		}
	}

	units, err := c.loadChunks(scratchDir, spans)
	if err != nil {
		c.Cleanup(ctx, decision)
		return models.ChunkingDecision{}, err
	}
	decision.Units = units

	c.logger.Info(ctx, "Split complete: %d chunks created", len(units))
	return decision, nil
}

// loadChunks reads the chunks back from disk ordered by numeric index.
// Sorting by file name would put chunk_10 before chunk_2 once the
// padding width is exceeded.
func (c *implChunker) loadChunks(dir string, spans []Span) ([]models.AudioUnit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read scratch dir: %v", models.ErrFilesystem, err)
	}

	var units []models.AudioUnit
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := reChunkName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: stat chunk: %v", models.ErrFilesystem, err)
		}
		units = append(units, models.AudioUnit{
			Path:       filepath.Join(dir, e.Name()),
			Format:     c.opts.Format,
			SizeBytes:  info.Size(),
			IsChunk:    true,
			ChunkIndex: idx,
			BaseOffset: float64(idx) * c.opts.SplitSeconds,
		})
	}

	sort.Slice(units, func(i, j int) bool { return units[i].ChunkIndex < units[j].ChunkIndex })

	if len(units) != len(spans) {
		return nil, fmt.Errorf("%w: expected %d chunks in %s, found %d", models.ErrFilesystem, len(spans), dir, len(units))
	}
	for i := range units {
		if units[i].ChunkIndex != i {
			return nil, fmt.Errorf("%w: chunk index %d missing in %s", models.ErrFilesystem, i, dir)
		}
		units[i].Duration = spans[i].Duration
	}
	return units, nil
}

func (c *implChunker) Cleanup(ctx context.Context, decision models.ChunkingDecision) {
	if decision.ScratchDir == "" {
		return
	}
	if err := os.RemoveAll(decision.ScratchDir); err != nil {
		c.logger.Warn(ctx, "Failed to cleanup scratch dir %s: %v", decision.ScratchDir, err)
	} else {
		c.logger.Debug(ctx, "Cleaned up scratch dir: %s", decision.ScratchDir)
	}
}
