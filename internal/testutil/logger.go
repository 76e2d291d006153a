package testutil

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nguyentantai21042004/speechnote/internal/logger"
)

// ObservedLogger returns a debug-level logger whose entries can be inspected.
func ObservedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewFromZap(zap.New(core)), logs
}

// WarnCount returns the number of warn entries recorded so far.
func WarnCount(logs *observer.ObservedLogs) int {
	return logs.FilterLevelExact(zapcore.WarnLevel).Len()
}
