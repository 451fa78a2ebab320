package redis

import (
	"context"

	v9 "github.com/redis/go-redis/v9"
)

// Client defines the pub/sub facing subset of a Redis client.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=redis_mock
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	Reconnect(ctx context.Context) bool

	Subscribe(ctx context.Context, channels ...string) (Subscription, error)
	Publish(ctx context.Context, channel string, message any) (int64, error)
}

// Subscription is an active channel subscription.
type Subscription interface {
	// Messages returns the delivery channel. It is closed after Close.
	Messages() <-chan *v9.Message
	Close() error
}
