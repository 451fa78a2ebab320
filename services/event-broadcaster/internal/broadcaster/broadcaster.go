package broadcaster

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/pkg/redis"
	"github.com/muhammadchandra19/exchange/pkg/util"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/registry"
)

// MessageTypeOrderUpdate tags events forwarded to clients.
const MessageTypeOrderUpdate = "ORDER_UPDATE"

// Broadcast outcomes.
const (
	OutcomeDelivered     = "delivered"
	OutcomeSkipped       = "skipped"
	OutcomeNoConnections = "no_connections"
	OutcomeMalformed     = "malformed"
)

// Envelope is the message written to clients for each event.
type Envelope struct {
	Type string              `json:"type"`
	Data orderbus.OrderEvent `json:"data"`
}

// Subscriber opens bus subscriptions.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) (redis.Subscription, error)
}

// Recorder receives broadcast outcomes.
type Recorder interface {
	Broadcast(outcome string, n int)
}

// Options sizes the pipeline.
type Options struct {
	Workers   int
	QueueSize int
}

// Broadcaster fans status events out to the owning user's connections.
// One subscriber goroutine feeds a bounded queue drained by Workers goroutines.
type Broadcaster struct {
	registry   *registry.Registry
	subscriber Subscriber
	recorder   Recorder
	logger     logger.Interface
	options    Options

	queue  chan string
	cancel context.CancelFunc
	sub    redis.Subscription

	readerWg sync.WaitGroup
	workerWg sync.WaitGroup
	stopOnce sync.Once
}

// New creates a broadcaster.
func New(registry *registry.Registry, subscriber Subscriber, recorder Recorder, logger logger.Interface, options Options) *Broadcaster {
	if options.Workers < 1 {
		options.Workers = 1
	}
	if options.QueueSize < 1 {
		options.QueueSize = 1
	}
	return &Broadcaster{
		registry:   registry,
		subscriber: subscriber,
		recorder:   recorder,
		logger:     logger,
		options:    options,
	}
}

// Broadcast enqueues the event to every open connection of its user and
// returns how many accepted it. Full or closed connections are skipped.
func (b *Broadcaster) Broadcast(ctx context.Context, event orderbus.OrderEvent) (int, error) {
	if b.registry.Count(event.UserID) == 0 {
		b.recorder.Broadcast(OutcomeNoConnections, 1)
		return 0, nil
	}

	msg, err := json.Marshal(Envelope{Type: MessageTypeOrderUpdate, Data: event})
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	delivered, skipped := 0, 0
	b.registry.ForEach(event.UserID, func(conn registry.Conn) {
		if conn.Send(msg) {
			delivered++
		} else {
			skipped++
		}
	})

	b.recorder.Broadcast(OutcomeDelivered, delivered)
	if skipped > 0 {
		b.recorder.Broadcast(OutcomeSkipped, skipped)
		b.logger.WarnContext(ctx, "event skipped for busy or closed connections",
			logger.Field{Key: "skipped", Value: skipped},
		)
	}
	return delivered, nil
}

// Start subscribes to the status channel and starts the workers.
func (b *Broadcaster) Start(ctx context.Context) error {
	sub, err := b.subscriber.Subscribe(ctx, orderbus.ChannelStatus)
	if err != nil {
		return err
	}

	ctx, b.cancel = context.WithCancel(ctx)
	b.sub = sub
	b.queue = make(chan string, b.options.QueueSize)

	b.workerWg.Add(b.options.Workers)
	for i := 0; i < b.options.Workers; i++ {
		go b.work(ctx)
	}

	b.readerWg.Add(1)
	go b.read(ctx)

	b.logger.Info("Listening for order events",
		logger.Field{Key: "channel", Value: orderbus.ChannelStatus},
		logger.Field{Key: "workers", Value: b.options.Workers},
	)
	return nil
}

// Stop closes the subscription, lets the workers drain the queue and waits
// for them until ctx expires.
func (b *Broadcaster) Stop(ctx context.Context) error {
	b.stopOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		if b.sub != nil {
			if err := b.sub.Close(); err != nil {
				b.logger.Error(err, logger.Field{Key: "action", Value: "close_subscription"})
			}
		}
	})

	done := make(chan struct{})
	go func() {
		b.readerWg.Wait()
		b.workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("Broadcaster stopped gracefully")
		return nil
	case <-ctx.Done():
		b.logger.Warn("Broadcaster stop timeout exceeded")
		return ctx.Err()
	}
}

func (b *Broadcaster) read(ctx context.Context) {
	defer b.readerWg.Done()
	// Only the reader sends, so it owns closing the queue.
	defer close(b.queue)

	messages := b.sub.Messages()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			select {
			case b.queue <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (b *Broadcaster) work(ctx context.Context) {
	defer b.workerWg.Done()

	// Drain whatever is queued even after cancellation.
	workCtx := context.WithoutCancel(ctx)
	for payload := range b.queue {
		b.handle(workCtx, payload)
	}
}

func (b *Broadcaster) handle(ctx context.Context, payload string) {
	event, err := orderbus.DecodeOrderEvent([]byte(payload))
	if err != nil {
		b.recorder.Broadcast(OutcomeMalformed, 1)
		b.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "decode_event"})
		return
	}

	ctx = util.WithOrderID(util.WithUserID(ctx, event.UserID), event.OrderID)
	delivered, err := b.Broadcast(ctx, event)
	if err != nil {
		b.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "broadcast_event"})
		return
	}

	b.logger.DebugContext(ctx, "event broadcast",
		logger.Field{Key: "status", Value: event.Status},
		logger.Field{Key: "connections", Value: delivered},
	)
}
