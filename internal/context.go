package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/sakti/internal/core/user"
)

type ctxKey string

const (
	ContextUserKey    ctxKey = "user"
	ContextTokenIDKey ctxKey = "tokenID"
)

func UserFromContext(ctx context.Context) (*user.User, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(ContextUserKey).(*user.User)
	return u, ok && u != nil
}

func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func UserIDFromContext(ctx context.Context) string {
	if u, ok := UserFromContext(ctx); ok {
		return u.ID
	}
	return ""
}

// TokenIDFromContext returns the jti of the access token that authenticated the request.
func TokenIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(ContextTokenIDKey).(string); ok {
		return id
	}
	return ""
}

func ContextWithTokenID(ctx context.Context, tokenID string) context.Context {
	return context.WithValue(ctx, ContextTokenIDKey, tokenID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
