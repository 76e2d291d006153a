package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(Options{Level: tt.level})
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}

func TestRunIDField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))

	ctx := WithRunID(context.Background(), "run-1")
	log.Info(ctx, "chunk %d done", 3)
	log.With("note", "alice").Warn(context.Background(), "plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "chunk 3 done", entries[0].Message)
	assert.Equal(t, "run-1", entries[0].ContextMap()["run_id"])
	assert.Equal(t, "alice", entries[1].ContextMap()["note"])
	_, hasRun := entries[1].ContextMap()["run_id"]
	assert.False(t, hasRun)
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speechnote.log")
	log := New(Options{Level: "error", File: path, MaxSizeMB: 1})

	// File sink records debug even when console level is error
	log.Debug(context.Background(), "to file only")
	Sync(log)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file only")
}

func TestNopDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	log := NewNop()
	log.Debug(ctx, "debug message")
	log.Info(ctx, "formatted message: %s %d", "test", 123)
	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")
	assert.Equal(t, "", RunID(ctx))
}
