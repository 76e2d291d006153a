package logger

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger sinks
type Options struct {
	Level      string
	Format     string // json or text
	File       string // empty disables the file sink
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type implLogger struct {
	sugar *zap.SugaredLogger
}

// New creates a Logger writing to stdout and, when opts.File is set, to a
// rotating log file
func New(opts Options) Logger {
	level := parseLevel(opts.Level)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.MessageKey = "msg"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEnc zapcore.Encoder
	if strings.ToLower(opts.Format) == "json" {
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	} else {
		textCfg := encCfg
		textCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(textCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		sink := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		// The file always gets debug output, like the console gets the configured level
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(sink), zapcore.DebugLevel))
	}

	return NewFromZap(zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)))
}

// NewFromZap wraps an existing zap logger
func NewFromZap(l *zap.Logger) Logger {
	return &implLogger{sugar: l.Sugar()}
}

// NewNop returns a Logger that discards everything
func NewNop() Logger {
	return NewFromZap(zap.NewNop())
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *implLogger) scoped(ctx context.Context) *zap.SugaredLogger {
	if id := RunID(ctx); id != "" {
		return l.sugar.With("run_id", id)
	}
	return l.sugar
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.scoped(ctx).Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.scoped(ctx).Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.scoped(ctx).Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.scoped(ctx).Errorf(msg, args...)
}

func (l *implLogger) With(keysAndValues ...interface{}) Logger {
	return &implLogger{sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries of a Logger created by this package
func Sync(l Logger) {
	if impl, ok := l.(*implLogger); ok {
		_ = impl.sugar.Sync()
	}
}
