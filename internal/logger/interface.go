package logger

import "context"

// Logger is the logging surface injected into every component
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})

	// With returns a child logger carrying the given key/value pairs
	With(keysAndValues ...interface{}) Logger
}

type ctxKey struct{}

// WithRunID scopes ctx to one pipeline invocation; log lines written with
// the returned context carry a run_id field
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, runID)
}

// RunID returns the run ID stored by WithRunID, if any
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
