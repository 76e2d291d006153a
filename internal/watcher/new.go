package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
)

// New creates a new Watcher instance with concurrency control
func New(opts Options, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(opts.InboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = 500 * time.Millisecond
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts["."+strings.TrimPrefix(strings.ToLower(e), ".")] = true
	}

	return &implWatcher{
		opts:       opts,
		extensions: exts,
		handler:    handler,
		logger:     log,
		watcher:    watcher,
		semaphore:  make(chan struct{}, opts.MaxConcurrent),
	}, nil
}
