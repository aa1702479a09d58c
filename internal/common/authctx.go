package common

import "context"

type ctxKey string

const adminKey ctxKey = "auth/admin"

// WithAdmin stores the authenticated admin identifier on the provided context.
func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminKey, username)
}

// Admin extracts the authenticated admin identifier from the context if present.
func Admin(ctx context.Context) (string, bool) {
	v := ctx.Value(adminKey)
	if v == nil {
		return "", false
	}
	username, ok := v.(string)
	return username, ok
}
