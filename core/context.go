package core

import (
	"context"

	"go.uber.org/zap"
)

// Context keys for request-scoped options
type contextKey string

const loggerKey contextKey = "logger"

// WithLogger attaches a request-scoped logger to the context
func WithLogger(ctx context.Context, log *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// loggerFrom returns the request-scoped logger, or fallback when none is set
func loggerFrom(ctx context.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	val := ctx.Value(loggerKey)
	if val == nil {
		return fallback
	}
	log, ok := val.(*zap.SugaredLogger)
	if !ok || log == nil {
		return fallback
	}
	return log
}
