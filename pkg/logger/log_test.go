package logger

import (
	"context"
	"testing"

	"github.com/muhammadchandra19/exchange/pkg/util"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{logger: zap.New(core)}, logs
}

func TestLogger_InfoContext(t *testing.T) {
	testCases := []struct {
		name     string
		ctx      context.Context
		assertFn func(t *testing.T, fields map[string]interface{})
	}{
		{
			name: "request id only",
			ctx:  util.WithRequestID(context.Background(), "req-1"),
			assertFn: func(t *testing.T, fields map[string]interface{}) {
				assert.Equal(t, "req-1", fields["request_id"])
				assert.NotContains(t, fields, "user_id")
				assert.NotContains(t, fields, "order_id")
				assert.NotContains(t, fields, "client_ip")
			},
		},
		{
			name: "client ip",
			ctx:  util.WithClientIP(util.WithRequestID(context.Background(), "req-3"), "10.0.0.7"),
			assertFn: func(t *testing.T, fields map[string]interface{}) {
				assert.Equal(t, "10.0.0.7", fields["client_ip"])
			},
		},
		{
			name: "user and order ids",
			ctx: util.WithOrderID(
				util.WithUserID(util.WithRequestID(context.Background(), "req-2"), "u1"),
				"o1",
			),
			assertFn: func(t *testing.T, fields map[string]interface{}) {
				assert.Equal(t, "req-2", fields["request_id"])
				assert.Equal(t, "u1", fields["user_id"])
				assert.Equal(t, "o1", fields["order_id"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, logs := newObserved()

			log.InfoContext(tc.ctx, "hello", NewField("action", "test"))

			entries := logs.All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, "hello", entries[0].Message)
				fields := entries[0].ContextMap()
				assert.Equal(t, "test", fields["action"])
				tc.assertFn(t, fields)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}
