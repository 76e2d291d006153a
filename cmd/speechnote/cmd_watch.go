package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/speechnote/internal/processor"
	"github.com/nguyentantai21042004/speechnote/internal/watcher"
)

// drainTimeout bounds how long shutdown waits for in-flight recordings
const drainTimeout = 30 * time.Second

func newWatchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "watch",
		Short: "Transcribe every recording dropped into the inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			note, _ := cmd.Flags().GetString("note")
			summarize, _ := cmd.Flags().GetBool("summarize")
			return runWatch(cmd, note, summarize)
		},
	}
	c.Flags().String("note", "", "note that inbox recordings are filed under (required)")
	c.Flags().Bool("summarize", false, "also summarize each recording")
	_ = c.MarkFlagRequired("note")
	return c
}

func runWatch(cmd *cobra.Command, note string, summarize bool) error {
	a, err := newApp(cmd, processor.Options{WatchNote: note, SummarizeOnWatch: summarize})
	if err != nil {
		return err
	}
	cfg := a.cfg

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Speechnote watcher")
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	a.log.Info(ctx, "Transcriber: %s, summarizer: %s", cfg.Transcriber.Backend, cfg.Summarizer.Backend)
	a.log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	if err := os.MkdirAll(cfg.Paths.Inbox, 0755); err != nil {
		return fmt.Errorf("create inbox %s: %w", cfg.Paths.Inbox, err)
	}

	w, err := watcher.New(watcher.Options{
		InboxDir:      cfg.Paths.Inbox,
		Extensions:    cfg.File.AllowedAudioExtensions,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
	}, a.proc.Process, a.log)
	if err != nil {
		return err
	}
	defer w.Stop()

	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		srv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           a.metrics.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error(ctx, "Metrics server error: %v", err)
			}
		}()
		a.log.Info(ctx, "Metrics: http://%s/metrics", cfg.Metrics.Addr)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(sigChan)

	// stopped closes once Start has returned, which is after every
	// in-flight run finished and cleaned up its scratch files
	errChan := make(chan error, 1)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	a.log.Info(ctx, "Monitoring: %s -> note %s", cfg.Paths.Inbox, note)
	a.log.Info(ctx, "Press Ctrl+C to stop")
	a.log.Info(ctx, "========================================")

	var runErr error
	select {
	case <-sigChan:
		a.log.Info(ctx, "Shutdown signal received")
	case runErr = <-errChan:
		a.log.Error(ctx, "Watcher error: %v", runErr)
	case <-ctx.Done():
	}

	a.log.Info(ctx, "Shutting down gracefully...")
	cancel()
	if !waitStopped(stopped, drainTimeout) {
		a.log.Warn(context.Background(), "Recordings still processing after %s, exiting anyway", drainTimeout)
	}

	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Warn(ctx, "Metrics server shutdown: %v", err)
		}
	}
	a.finish(context.Background())
	a.log.Info(context.Background(), "Speechnote watcher stopped")
	return runErr
}

// waitStopped reports whether done closed within timeout
func waitStopped(done <-chan struct{}, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
