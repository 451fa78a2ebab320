package broadcaster

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/pkg/redis"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/metrics"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/registry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	v9 "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	accept   bool
	messages [][]byte
	received chan struct{}
}

func newFakeConn(accept bool) *fakeConn {
	return &fakeConn{accept: accept, received: make(chan struct{}, 8)}
}

func (c *fakeConn) Send(msg []byte) bool {
	if !c.accept {
		return false
	}
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	c.received <- struct{}{}
	return true
}

func (c *fakeConn) Close() {}

func (c *fakeConn) Messages() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

type fakeSubscription struct {
	ch     chan *v9.Message
	closed bool
}

func (s *fakeSubscription) Messages() <-chan *v9.Message { return s.ch }

func (s *fakeSubscription) Close() error {
	s.closed = true
	return nil
}

type fakeSubscriber struct {
	sub *fakeSubscription
}

func (f *fakeSubscriber) Subscribe(_ context.Context, channels ...string) (redis.Subscription, error) {
	return f.sub, nil
}

func filledEvent(userID string) orderbus.OrderEvent {
	return orderbus.OrderEvent{
		OrderID:   "o-1",
		UserID:    userID,
		Status:    orderbus.StatusFilled,
		Symbol:    "BTCUSDT",
		Side:      orderbus.SideBuy,
		Quantity:  decimal.RequireFromString("0.5"),
		Price:     decimal.RequireFromString("42000"),
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBroadcaster_Broadcast(t *testing.T) {
	reg := registry.New()
	m := metrics.New()
	b := New(reg, nil, m, logger.NewNop(), Options{})

	open1, open2, full := newFakeConn(true), newFakeConn(true), newFakeConn(false)
	other := newFakeConn(true)
	reg.Add("u1", open1)
	reg.Add("u1", open2)
	reg.Add("u1", full)
	reg.Add("u2", other)

	delivered, err := b.Broadcast(context.Background(), filledEvent("u1"))
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	require.Len(t, open1.Messages(), 1)
	assert.Equal(t, open1.Messages()[0], open2.Messages()[0])
	assert.Empty(t, other.Messages())

	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(open1.Messages()[0], &envelope))
	assert.Equal(t, "ORDER_UPDATE", envelope.Type)
	assert.JSONEq(t, `{"orderId":"o-1","userId":"u1","status":"FILLED","symbol":"BTCUSDT","side":"BUY","quantity":0.5,"price":42000,"timestamp":"2026-01-01T00:00:00Z"}`, string(envelope.Data))

	delivered, err = b.Broadcast(context.Background(), filledEvent("nobody"))
	require.NoError(t, err)
	assert.Zero(t, delivered)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Broadcasts().WithLabelValues(OutcomeDelivered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Broadcasts().WithLabelValues(OutcomeSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Broadcasts().WithLabelValues(OutcomeNoConnections)))
}

func TestBroadcaster_Pipeline(t *testing.T) {
	reg := registry.New()
	m := metrics.New()
	sub := &fakeSubscription{ch: make(chan *v9.Message, 4)}
	b := New(reg, &fakeSubscriber{sub: sub}, m, logger.NewNop(), Options{Workers: 2, QueueSize: 4})

	conn := newFakeConn(true)
	reg.Add("u1", conn)

	require.NoError(t, b.Start(context.Background()))

	payload, err := json.Marshal(filledEvent("u1"))
	require.NoError(t, err)
	sub.ch <- &v9.Message{Channel: orderbus.ChannelStatus, Payload: "{broken"}
	sub.ch <- &v9.Message{Channel: orderbus.ChannelStatus, Payload: string(payload)}

	select {
	case <-conn.received:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, b.Stop(ctx))
	assert.True(t, sub.closed)

	assert.Len(t, conn.Messages(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Broadcasts().WithLabelValues(OutcomeMalformed)))
}
