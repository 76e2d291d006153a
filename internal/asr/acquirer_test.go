package asr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/metrics"
	"github.com/nguyentantai21042004/speechnote/internal/models"
	tu "github.com/nguyentantai21042004/speechnote/internal/testutil"
)

// fakeBackend answers by chunk index. Delays let tests force out-of-order
// completion under fan-out.
type fakeBackend struct {
	segments map[int][]models.TranscriptSegment
	delays   map[int]time.Duration
	errs     map[int]error

	mu    sync.Mutex
	calls []int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Transcribe(ctx context.Context, unit models.AudioUnit) ([]models.TranscriptSegment, error) {
	f.mu.Lock()
	f.calls = append(f.calls, unit.ChunkIndex)
	f.mu.Unlock()

	if d := f.delays[unit.ChunkIndex]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[unit.ChunkIndex]; err != nil {
		return nil, err
	}
	return f.segments[unit.ChunkIndex], nil
}

func chunks(n int, split float64) []models.AudioUnit {
	units := make([]models.AudioUnit, n)
	for i := range units {
		units[i] = models.AudioUnit{
			Path:       "chunk.mp3",
			IsChunk:    true,
			ChunkIndex: i,
			BaseOffset: float64(i) * split,
		}
	}
	return units
}

func threeChunkBackend() *fakeBackend {
	return &fakeBackend{
		segments: map[int][]models.TranscriptSegment{
			0: {{Start: 0, End: 4, Text: "a"}, {Start: 5, End: 590, Text: "b"}},
			1: {{Start: 0.5, End: 3, Text: "c"}, {Start: 10, End: 599, Text: "d"}},
			2: {{Start: 1, End: 2, Text: "e"}},
		},
	}
}

func TestAcquireSingleUnit(t *testing.T) {
	b := &fakeBackend{segments: map[int][]models.TranscriptSegment{
		0: {{Start: 1, End: 2, Text: " hello"}},
	}}
	a := NewAcquirer(b, Options{}, logger.NewNop(), nil)

	segs, err := a.Acquire(context.Background(), []models.AudioUnit{{Path: "whole.mp3"}})
	require.NoError(t, err)
	assert.Equal(t, []models.TranscriptSegment{{Start: 1, End: 2, Text: " hello"}}, segs)
}

func TestAcquireRemapsOffsets(t *testing.T) {
	tests := []struct {
		name        string
		maxParallel int
		delays      map[int]time.Duration
	}{
		{"sequential", 1, nil},
		{"parallel completing in reverse", 3, map[int]time.Duration{0: 30 * time.Millisecond, 1: 15 * time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := threeChunkBackend()
			b.delays = tt.delays
			a := NewAcquirer(b, Options{MaxParallel: tt.maxParallel}, logger.NewNop(), nil)

			segs, err := a.Acquire(context.Background(), chunks(3, 600))
			require.NoError(t, err)

			want := []models.TranscriptSegment{
				{Start: 0, End: 4, Text: "a"},
				{Start: 5, End: 590, Text: "b"},
				{Start: 600.5, End: 603, Text: "c"},
				{Start: 610, End: 1199, Text: "d"},
				{Start: 1201, End: 1202, Text: "e"},
			}
			assert.Equal(t, want, segs)

			for i := 1; i < len(segs); i++ {
				assert.LessOrEqual(t, segs[i-1].Start, segs[i].Start, "global starts are monotone")
			}
		})
	}
}

func TestAcquireOrdersUnitsByIndex(t *testing.T) {
	b := threeChunkBackend()
	a := NewAcquirer(b, Options{}, logger.NewNop(), nil)

	units := chunks(3, 600)
	units[0], units[2] = units[2], units[0]

	segs, err := a.Acquire(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, segs, 5)
	assert.Equal(t, "a", segs[0].Text)
	assert.Equal(t, "e", segs[4].Text)
	assert.Equal(t, []int{0, 1, 2}, b.calls)
}

func TestAcquireErrorAborts(t *testing.T) {
	cause := errors.New("503 service unavailable")
	b := threeChunkBackend()
	b.errs = map[int]error{1: cause}
	m := metrics.New()
	a := NewAcquirer(b, Options{}, logger.NewNop(), m)

	segs, err := a.Acquire(context.Background(), chunks(3, 600))
	require.Error(t, err)
	assert.Nil(t, segs)
	assert.True(t, errors.Is(err, models.ErrCollaborator))
	assert.True(t, errors.Is(err, cause))

	var ce *models.CollaboratorError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "fake", ce.Collaborator)

	// sequential mode never reaches the unit after the failure
	assert.Equal(t, []int{0, 1}, b.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChunksTotal.WithLabelValues("fake", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollaboratorErrorsTotal.WithLabelValues("fake")))
}

func TestAcquireClampsInvertedSegments(t *testing.T) {
	b := &fakeBackend{segments: map[int][]models.TranscriptSegment{
		0: {{Start: 3, End: 2, Text: "x"}},
	}}
	log, logs := tu.ObservedLogger()
	m := metrics.New()
	a := NewAcquirer(b, Options{}, log, m)

	segs, err := a.Acquire(context.Background(), chunks(1, 600))
	require.NoError(t, err)
	assert.Equal(t, []models.TranscriptSegment{{Start: 3, End: 3, Text: "x"}}, segs)
	assert.Equal(t, 1, tu.WarnCount(logs))
	assert.Equal(t, "fake", logs.FilterLevelExact(zapcore.WarnLevel).All()[0].ContextMap()["backend"])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DataQualityWarningsTotal.WithLabelValues("inverted_segment")))
}

func TestAcquireEmpty(t *testing.T) {
	a := NewAcquirer(&fakeBackend{}, Options{}, logger.NewNop(), nil)
	segs, err := a.Acquire(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestAcquireErrorsNotBlamedOnBackend(t *testing.T) {
	t.Run("local filesystem error", func(t *testing.T) {
		cause := fmt.Errorf("%w: open chunk.mp3: permission denied", models.ErrFilesystem)
		b := &fakeBackend{errs: map[int]error{0: cause}}
		m := metrics.New()
		a := NewAcquirer(b, Options{}, logger.NewNop(), m)

		_, err := a.Acquire(context.Background(), chunks(1, 600))
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrFilesystem)
		assert.False(t, errors.Is(err, models.ErrCollaborator))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.CollaboratorErrorsTotal.WithLabelValues("fake")))
	})

	t.Run("caller cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		b := &fakeBackend{delays: map[int]time.Duration{0: time.Minute}}
		m := metrics.New()
		a := NewAcquirer(b, Options{}, logger.NewNop(), m)

		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		_, err := a.Acquire(ctx, chunks(1, 600))
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, errors.Is(err, models.ErrCollaborator))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.CollaboratorErrorsTotal.WithLabelValues("fake")))
	})
}
