package asr

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

func (a *implAcquirer) Acquire(ctx context.Context, units []models.AudioUnit) ([]models.TranscriptSegment, error) {
	if len(units) == 0 {
		return nil, nil
	}

	ordered := slices.Clone(units)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ChunkIndex < ordered[j].ChunkIndex })

	// Each unit writes only its own slot so reassembly keeps index order
	// regardless of completion order.
	results := make([][]models.TranscriptSegment, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.MaxParallel)

	for i, unit := range ordered {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a.logger.Info(gctx, "Transcribing unit %d/%d with %s: %s", i+1, len(ordered), a.backend.Name(), unit.Path)

			local, err := a.backend.Transcribe(gctx, unit)
			a.metrics.RecordUnit(a.backend.Name(), err == nil)
			if err != nil {
				return fmt.Errorf("transcribe %s: %w", unit, err)
			}

			results[i] = a.remap(gctx, unit, local)
			a.logger.Debug(gctx, "Unit %d produced %d segments", unit.ChunkIndex, len(local))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Local file trouble and caller cancellation are not the backend's fault
		if ctx.Err() != nil || errors.Is(err, models.ErrFilesystem) {
			return nil, err
		}
		a.metrics.RecordCollaboratorError(a.backend.Name())
		if errors.Is(err, models.ErrCollaborator) {
			return nil, err
		}
		return nil, models.NewCollaboratorError(a.backend.Name(), err)
	}

	var segments []models.TranscriptSegment
	for _, r := range results {
		segments = append(segments, r...)
	}
	a.logger.Info(ctx, "Acquired %d segments from %d units", len(segments), len(ordered))
	return segments, nil
}

// remap shifts unit-local timestamps onto the global timeline
func (a *implAcquirer) remap(ctx context.Context, unit models.AudioUnit, local []models.TranscriptSegment) []models.TranscriptSegment {
	out := make([]models.TranscriptSegment, 0, len(local))
	inverted := 0
	for _, s := range local {
		g := models.TranscriptSegment{
			Start: s.Start + unit.BaseOffset,
			End:   s.End + unit.BaseOffset,
			Text:  s.Text,
		}
		if g.End < g.Start {
			inverted++
			a.logger.Warn(ctx, "Segment ends before it starts (%.3f < %.3f) in unit %d, clamping", g.End, g.Start, unit.ChunkIndex)
			g.End = g.Start
		}
		out = append(out, g)
	}
	a.metrics.RecordDataQuality("inverted_segment", inverted)
	return out
}
