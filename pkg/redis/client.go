package redis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type client struct {
	logger logger.Interface
	config *Config

	mu  sync.RWMutex
	rdb redis.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger logger.Interface, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func configError(message string) error {
	return errors.NewErrorDetails(message, string(errors.RedisConfigError), "connect")
}

func (c *client) Connect(ctx context.Context) error {
	if c.config == nil {
		return configError("Redis config is nil")
	}

	if err := c.config.Validate(); err != nil {
		return err
	}

	var rdb redis.UniversalClient
	switch c.config.Mode {
	case Standalone:
		rdb = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return errors.NewErrorDetails(
			fmt.Sprintf("Failed to connect to Redis: %v", err),
			string(errors.RedisConnectionError),
			"connect",
		)
	}

	c.mu.Lock()
	previous := c.rdb
	c.rdb = rdb
	c.mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}

	return nil
}

// Reconnect retries Connect with exponential backoff and jitter. It returns
// false when every attempt failed or ctx was cancelled.
func (c *client) Reconnect(ctx context.Context) bool {
	baseDelay := c.config.MinRetryBackoff
	maxDelay := c.config.MaxRetryBackoff

	for i := range c.config.ReconnectMaxRetries {
		backoff := min(baseDelay*time.Duration(math.Pow(2, float64(i))), maxDelay)

		jitter := time.Duration(rand.IntN(1000)) * time.Millisecond
		totalDelay := backoff + jitter

		c.logger.Info("Reconnecting to Redis",
			logger.Field{Key: "attempt", Value: i + 1},
			logger.Field{Key: "delay", Value: totalDelay.String()},
		)

		select {
		case <-ctx.Done():
			c.logger.Info("Reconnect cancelled", logger.Field{
				Key:   "reason",
				Value: ctx.Err().Error(),
			})
			return false
		case <-time.After(totalDelay):
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Connect(connectCtx)
			cancel()
			if err == nil {
				c.logger.Info("Reconnected to Redis successfully", logger.Field{
					Key:   "attempt",
					Value: i + 1,
				})
				return true
			}
			c.logger.Error(errors.TracerFromError(err), logger.Field{
				Key:   "attempt",
				Value: i + 1,
			})
		}
	}

	return false
}

func (c *client) Disconnect(ctx context.Context) error {
	rdb, err := c.conn("disconnect")
	if err != nil {
		return err
	}

	if err := rdb.Close(); err != nil {
		return errors.NewErrorDetails("Failed to close Redis client", string(errors.RedisDisconnectionError), "disconnect")
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	rdb, err := c.conn("ping")
	if err != nil {
		return err
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", string(errors.RedisPingError), "ping")
	}
	return nil
}

func (c *client) Subscribe(ctx context.Context, channels ...string) (Subscription, error) {
	rdb, err := c.conn("subscribe")
	if err != nil {
		return nil, err
	}

	pubSub := rdb.Subscribe(ctx, channels...)

	// Wait for the subscription confirmation so that messages published after
	// Subscribe returns are not missed.
	if _, err := pubSub.Receive(ctx); err != nil {
		_ = pubSub.Close()
		return nil, errors.NewErrorDetails("Failed to subscribe to channels in Redis", string(errors.RedisSubscribeError), "subscribe")
	}

	size := c.config.SubscriptionBuffer
	if size <= 0 {
		size = 100
	}

	return &subscription{
		pubSub:   pubSub,
		messages: pubSub.Channel(redis.WithChannelSize(size)),
	}, nil
}

// Publish sends message to channel and returns the number of receivers.
// Zero receivers is not an error for pub/sub delivery.
func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	rdb, err := c.conn("publish")
	if err != nil {
		return 0, err
	}

	received, err := rdb.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, errors.NewErrorDetails(
			fmt.Sprintf("Failed to publish to channel %s: %v", channel, err),
			string(errors.RedisPublishError),
			"publish",
		)
	}
	return received, nil
}

func (c *client) conn(op string) (redis.UniversalClient, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.rdb == nil {
		return nil, errors.NewErrorDetails("Redis client is not connected", string(errors.RedisConnectionError), op)
	}
	return c.rdb, nil
}

type subscription struct {
	pubSub   *redis.PubSub
	messages <-chan *redis.Message
}

func (s *subscription) Messages() <-chan *redis.Message {
	return s.messages
}

func (s *subscription) Close() error {
	return s.pubSub.Close()
}
