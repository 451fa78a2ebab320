package consumer

import (
	"context"
	"sync"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/pkg/redis"
	executionDomain "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/execution"
	v9 "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	actionSubmit = "submit"
	actionCancel = "cancel"

	outcomeMalformed = "malformed"
)

// Subscriber opens bus subscriptions.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) (redis.Subscription, error)
}

// Recorder receives per-command metrics.
type Recorder interface {
	CommandHandled(action, outcome string)
	InFlight(delta float64)
}

// Consumer reads both command channels on one goroutine and hands each
// command to its own handler goroutine, at most maxInFlight at a time.
type Consumer struct {
	subscriber Subscriber
	usecase    executionDomain.Usecase
	recorder   Recorder
	logger     logger.Interface

	maxInFlight int

	cancel   context.CancelFunc
	sub      redis.Subscription
	group    *errgroup.Group
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewConsumer creates a consumer. maxInFlight below 1 means one handler at a time.
func NewConsumer(subscriber Subscriber, usecase executionDomain.Usecase, recorder Recorder, logger logger.Interface, maxInFlight int) *Consumer {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Consumer{
		subscriber:  subscriber,
		usecase:     usecase,
		recorder:    recorder,
		logger:      logger,
		maxInFlight: maxInFlight,
	}
}

// Start subscribes and begins dispatching in the background.
func (c *Consumer) Start(ctx context.Context) error {
	sub, err := c.subscriber.Subscribe(ctx, orderbus.ChannelSubmit, orderbus.ChannelCancel)
	if err != nil {
		return err
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.sub = sub
	c.group = &errgroup.Group{}
	c.group.SetLimit(c.maxInFlight)

	c.wg.Add(1)
	go c.run(ctx)

	c.logger.Info("Listening for order commands",
		logger.Field{Key: "channels", Value: []string{orderbus.ChannelSubmit, orderbus.ChannelCancel}},
		logger.Field{Key: "max_in_flight", Value: c.maxInFlight},
	)
	return nil
}

// Stop ends the subscription and waits for in-flight handlers until ctx expires.
func (c *Consumer) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		if c.sub != nil {
			if err := c.sub.Close(); err != nil {
				c.logger.Error(err, logger.Field{Key: "action", Value: "close_subscription"})
			}
		}
	})

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		if c.group != nil {
			_ = c.group.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Consumer stopped gracefully")
		return nil
	case <-ctx.Done():
		c.logger.Warn("Consumer stop timeout exceeded")
		return ctx.Err()
	}
}

func (c *Consumer) run(ctx context.Context) {
	defer c.wg.Done()

	messages := c.sub.Messages()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			c.dispatch(ctx, msg)
		}
	}
}

// dispatch blocks while maxInFlight handlers are running.
func (c *Consumer) dispatch(ctx context.Context, msg *v9.Message) {
	// Handlers outlive the subscription so in-flight orders resolve on shutdown.
	handlerCtx := context.WithoutCancel(ctx)

	switch msg.Channel {
	case orderbus.ChannelSubmit:
		cmd, err := orderbus.DecodeOrderCommand([]byte(msg.Payload))
		if err != nil {
			c.malformed(ctx, actionSubmit, err)
			return
		}
		c.handle(actionSubmit, func() string {
			return c.usecase.OnSubmit(handlerCtx, cmd)
		})

	case orderbus.ChannelCancel:
		cmd, err := orderbus.DecodeCancelCommand([]byte(msg.Payload))
		if err != nil {
			c.malformed(ctx, actionCancel, err)
			return
		}
		c.handle(actionCancel, func() string {
			return c.usecase.OnCancel(handlerCtx, cmd)
		})

	default:
		c.logger.WarnContext(ctx, "message on unexpected channel", logger.Field{Key: "channel", Value: msg.Channel})
	}
}

func (c *Consumer) handle(action string, fn func() string) {
	c.group.Go(func() error {
		c.recorder.InFlight(1)
		defer c.recorder.InFlight(-1)

		c.recorder.CommandHandled(action, fn())
		return nil
	})
}

func (c *Consumer) malformed(ctx context.Context, action string, err error) {
	c.logger.ErrorContext(ctx, err,
		logger.Field{Key: "action", Value: "decode_command"},
		logger.Field{Key: "command", Value: action},
	)
	c.recorder.CommandHandled(action, outcomeMalformed)
}
