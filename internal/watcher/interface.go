package watcher

import (
	"context"
	"time"
)

// Watcher defines the interface for inbox monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles file events
type EventHandler func(ctx context.Context, filePath string) error

// Options configures a Watcher
type Options struct {
	InboxDir      string
	Extensions    []string
	MaxConcurrent int
	// SettleDelay gives the writer time to finish before the handler runs
	SettleDelay time.Duration
}
