package redis

import (
	"context"

	"github.com/muhammadchandra19/exchange/pkg/logger"
)

// ConnectWithRetry connects c and falls back to Reconnect when the first
// attempt fails. The first error is returned if every retry fails too.
func ConnectWithRetry(ctx context.Context, c Client, log logger.Interface) error {
	err := c.Connect(ctx)
	if err == nil {
		return nil
	}

	log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
	if c.Reconnect(ctx) {
		return nil
	}
	return err
}
