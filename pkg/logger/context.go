package logger

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey struct{}

// Into attaches l to ctx.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// With tags the request logger, e.g. with a trace id or the signed in user.
func With(ctx context.Context, attrs ...any) context.Context {
	return Into(ctx, From(ctx).With(attrs...))
}

// From returns the request logger, falling back to the process logger.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return LoggerWrapper()
}

// Middleware seeds each request with base, so attributes added further down
// the chain end up on the application logger.
func Middleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(Into(r.Context(), base)))
		})
	}
}
