package jwt

import (
	"context"
)

type contextKey string

const tokenKey contextKey = "token"

// WithToken keeps the raw token for handlers such as logout.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetToken retrieves the raw token from the context
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}
