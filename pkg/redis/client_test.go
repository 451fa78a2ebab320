package redis

import (
	"context"
	"testing"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestClient_ConnectValidation(t *testing.T) {
	testCases := []struct {
		name     string
		config   func() *Config
		assertFn func(t *testing.T, err error)
	}{
		{
			name:   "nil config",
			config: func() *Config { return nil },
			assertFn: func(t *testing.T, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, errors.RedisConfigError))
				assert.EqualError(t, err, "Redis config is nil")
			},
		},
		{
			name: "empty addresses",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Addrs = nil
				return cfg
			},
			assertFn: func(t *testing.T, err error) {
				assert.EqualError(t, err, "Redis addresses are empty")
			},
		},
		{
			name: "invalid mode",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Mode = "sentinel"
				return cfg
			},
			assertFn: func(t *testing.T, err error) {
				assert.EqualError(t, err, "Invalid Redis mode")
			},
		},
		{
			name: "invalid pool size",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.PoolSize = 0
				return cfg
			},
			assertFn: func(t *testing.T, err error) {
				assert.EqualError(t, err, "Invalid Redis pool size")
			},
		},
		{
			name: "unreachable server",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Addrs = []string{"127.0.0.1:1"}
				cfg.ConnectTimeout = 200 * time.Millisecond
				cfg.MaxRetries = 0
				return cfg
			},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, errors.RedisConnectionError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClient(logger.NewNop(), tc.config())
			err := c.Connect(context.Background())
			tc.assertFn(t, err)
		})
	}
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient(logger.NewNop(), DefaultConfig())
	ctx := context.Background()

	_, err := c.Publish(ctx, "events:order:status", "{}")
	assert.True(t, errors.ErrorCodeEquals(err, errors.RedisConnectionError))

	_, err = c.Subscribe(ctx, "events:order:status")
	assert.True(t, errors.ErrorCodeEquals(err, errors.RedisConnectionError))

	assert.Error(t, c.Ping(ctx))
}

func TestClient_ReconnectCancelled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addrs = []string{"127.0.0.1:1"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(logger.NewNop(), cfg)
	assert.False(t, c.Reconnect(ctx))
}
