package orderbus

import (
	"context"
	"encoding/json"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/redis"
)

// Publisher sends commands and events onto the bus.
//
//go:generate mockgen -source bus.go -destination=mock/bus_mock.go -package=orderbus_mock
type Publisher interface {
	PublishSubmit(ctx context.Context, cmd OrderCommand) error
	PublishCancel(ctx context.Context, cmd CancelCommand) error
	PublishEvent(ctx context.Context, event OrderEvent) error
}

// Bus is the Redis pub/sub implementation of Publisher. Delivery is
// at-most-once: messages published while nobody listens are lost.
type Bus struct {
	client redis.Client
	logger logger.Interface
}

var _ Publisher = (*Bus)(nil)

// NewBus creates a Bus over an already connected Redis client.
func NewBus(client redis.Client, logger logger.Interface) *Bus {
	return &Bus{
		client: client,
		logger: logger,
	}
}

// PublishSubmit publishes cmd on ChannelSubmit.
func (b *Bus) PublishSubmit(ctx context.Context, cmd OrderCommand) error {
	return b.publish(ctx, ChannelSubmit, cmd.OrderID, cmd)
}

// PublishCancel publishes cmd on ChannelCancel.
func (b *Bus) PublishCancel(ctx context.Context, cmd CancelCommand) error {
	return b.publish(ctx, ChannelCancel, cmd.OrderID, cmd)
}

// PublishEvent publishes event on ChannelStatus.
func (b *Bus) PublishEvent(ctx context.Context, event OrderEvent) error {
	return b.publish(ctx, ChannelStatus, event.OrderID, event)
}

// Subscribe opens a subscription on the given channels.
func (b *Bus) Subscribe(ctx context.Context, channels ...string) (redis.Subscription, error) {
	return b.client.Subscribe(ctx, channels...)
}

func (b *Bus) publish(ctx context.Context, channel, orderID string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.TracerFromError(err)
	}

	receivers, err := b.client.Publish(ctx, channel, payload)
	if err != nil {
		return err
	}

	if receivers == 0 {
		b.logger.WarnContext(ctx, "message published without subscribers",
			logger.Field{Key: "channel", Value: channel},
			logger.Field{Key: "order_id", Value: orderID},
		)
		return nil
	}

	b.logger.DebugContext(ctx, "message published",
		logger.Field{Key: "channel", Value: channel},
		logger.Field{Key: "order_id", Value: orderID},
		logger.Field{Key: "receivers", Value: receivers},
	)
	return nil
}
