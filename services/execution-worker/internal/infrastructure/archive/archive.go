package archive

import (
	"context"
	"encoding/json"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/services/execution-worker/pkg/config"
	"github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer the archive uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher forwards to the bus and then copies each event to Kafka.
// Archive failures never fail the publish.
type Publisher struct {
	orderbus.Publisher

	writer Writer
	logger logger.Interface
}

// defaultBatchTimeout applies when the config leaves it unset. Writes are
// synchronous and each one waits up to the batch timeout.
const defaultBatchTimeout = 10 * time.Millisecond

// NewWriter creates the Kafka writer for the archive topic.
func NewWriter(cfg config.ArchiveConfig) *kafka.Writer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
}

// NewPublisher wraps next so that every event it publishes is archived.
func NewPublisher(next orderbus.Publisher, writer Writer, logger logger.Interface) *Publisher {
	return &Publisher{
		Publisher: next,
		writer:    writer,
		logger:    logger,
	}
}

// PublishEvent publishes on the bus first; the archive copy is best effort.
func (p *Publisher) PublishEvent(ctx context.Context, event orderbus.OrderEvent) error {
	err := p.Publisher.PublishEvent(ctx, event)

	if archiveErr := p.archive(ctx, event); archiveErr != nil {
		p.logger.ErrorContext(ctx, archiveErr,
			logger.Field{Key: "action", Value: "archive_event"},
			logger.Field{Key: "status", Value: event.Status},
		)
	}

	return err
}

func (p *Publisher) archive(ctx context.Context, event orderbus.OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.TracerFromError(err)
	}

	// Keyed by order so one order's events stay on one partition.
	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.NewTracer("failed to archive order event").Wrap(err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
