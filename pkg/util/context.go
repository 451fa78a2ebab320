package util

import (
	"context"
)

type key string

const (
	clientIPKey = key("x-forwarded-for")
	userIDKey   = key("user-id")
	orderIDKey  = key("order-id")
)

// WithClientIP returns a context with a client ip
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// WithOrderID returns a context carrying the order id being processed.
func WithOrderID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, orderIDKey, id)
}

// GetClientIP returns client ip from context
// will return empty string if not present
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// GetUserID returns the user id from context, or empty string.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// GetOrderID returns the order id from context, or empty string.
func GetOrderID(ctx context.Context) string {
	id, _ := ctx.Value(orderIDKey).(string)
	return id
}
