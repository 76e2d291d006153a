package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
)

type implWatcher struct {
	opts       Options
	extensions map[string]bool
	handler    EventHandler
	logger     logger.Logger
	watcher    *fsnotify.Watcher
	semaphore  chan struct{}
	wg         sync.WaitGroup
}

// Start begins monitoring the inbox for new audio files. It returns only
// after every handler it started has returned.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.opts.MaxConcurrent, w.opts.InboxDir)
	w.logger.Info(ctx, "Supported formats: %s", w.supportedFormats())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.isAudioFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New recording detected: %s", event.Name)

			// Small delay to ensure file is fully written
			select {
			case <-time.After(w.opts.SettleDelay):
			case <-ctx.Done():
				continue
			}

			// Acquire semaphore slot (blocks if max concurrent reached)
			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(filePath string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					if err := w.handler(ctx, filePath); err != nil {
						w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
					}
				}(event.Name)
			case <-ctx.Done():
				continue
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// isAudioFile checks if the file has a configured audio extension
func (w *implWatcher) isAudioFile(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *implWatcher) supportedFormats() string {
	formats := make([]string, 0, len(w.extensions))
	for e := range w.extensions {
		formats = append(formats, e)
	}
	sort.Strings(formats)
	return strings.Join(formats, ", ")
}
