package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
)

func TestIsAudioFile(t *testing.T) {
	w := &implWatcher{extensions: map[string]bool{".mp3": true, ".wav": true}}

	tests := []struct {
		path string
		want bool
	}{
		{"/inbox/session.mp3", true},
		{"/inbox/SESSION.WAV", true},
		{"/inbox/notes.txt", false},
		{"/inbox/.session.mp3.part", false},
		{"/inbox/.hidden.mp3", false},
		{"/inbox/noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, w.isAudioFile(tt.path))
		})
	}
}

func TestWatcherDispatchesAudioFiles(t *testing.T) {
	inbox := t.TempDir()

	var (
		mu   sync.Mutex
		seen []string
	)
	done := make(chan struct{}, 4)
	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	w, err := New(Options{
		InboxDir:    inbox,
		Extensions:  []string{"mp3", ".m4a"},
		SettleDelay: 10 * time.Millisecond,
	}, handler, logger.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- w.Start(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(inbox, "readme.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "session.mp3"), []byte("x"), 0644))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	select {
	case err := <-stopped:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"session.mp3"}, seen)
}

func TestWatcherStartWaitsForHandlers(t *testing.T) {
	inbox := t.TempDir()

	started := make(chan struct{})
	var finished atomic.Bool
	handler := func(ctx context.Context, path string) error {
		close(started)
		<-ctx.Done()
		// cleanup after cancellation still has to complete
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return ctx.Err()
	}

	w, err := New(Options{InboxDir: inbox, Extensions: []string{"mp3"}, SettleDelay: 10 * time.Millisecond}, handler, logger.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan error, 1)
	go func() { returned <- w.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "session.mp3"), []byte("x"), 0644))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("handler never started")
	}
	cancel()

	select {
	case err := <-returned:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return")
	}
	assert.True(t, finished.Load())
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(Options{InboxDir: filepath.Join(t.TempDir(), "missing")}, nil, logger.NewNop())
	assert.Error(t, err)
}
