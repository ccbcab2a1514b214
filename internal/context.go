package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextUserKey  ctxKey = "userID"
	ContextTokenKey ctxKey = "accessToken"
)

// DefaultTimeout bounds a backend call when the caller configured none.
const DefaultTimeout = 5 * time.Second

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// UserIDFromContext returns the authenticated caller, or "" for anonymous
// and background work.
func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ContextUserKey)
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

// AccessTokenFromContext returns the bearer token the auth middleware accepted.
func AccessTokenFromContext(ctx context.Context) string {
	return stringValue(ctx, ContextTokenKey)
}

func ContextWithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextTokenKey, token)
}

func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
