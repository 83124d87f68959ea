package slogx

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/riskregister/pkg/idx"
)

type (
	loggerKey    struct{}
	requestIDKey struct{}
)

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the request scoped logger, or the default logger when
// none was attached (background jobs, tests).
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithRequestID records id on ctx and tags the carried logger with it.
func WithRequestID(ctx context.Context, id idx.ID) context.Context {
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	return WithContext(ctx, FromContext(ctx).With("req_id", id.String()))
}

// RequestIDFromContext returns the id set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(idx.ID)
	return id.String()
}

// WithUser tags the carried logger with the authenticated caller.
func WithUser(ctx context.Context, email string) context.Context {
	return WithContext(ctx, FromContext(ctx).With("user", email))
}
