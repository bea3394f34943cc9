package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	runIDKey
)

// WithLogger stores logger on ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored on ctx, or the default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithRunID records the sync run id on ctx and adds it to the logger.
func WithRunID(ctx context.Context, runID string) context.Context {
	ctx = context.WithValue(ctx, runIDKey, runID)
	return withStr(ctx, "run_id", runID)
}

// RunID returns the sync run id stored on ctx.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithMailbox adds the target mailbox to the logger.
func WithMailbox(ctx context.Context, mailbox string) context.Context {
	return withStr(ctx, "mailbox", mailbox)
}

// WithContact adds the contact key (normalized e-mail) to the logger.
func WithContact(ctx context.Context, key string) context.Context {
	return withStr(ctx, "contact", key)
}

// WithOperation adds the write operation (create, update, delete) to the logger.
func WithOperation(ctx context.Context, op string) context.Context {
	return withStr(ctx, "operation", op)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
