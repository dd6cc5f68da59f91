package kafka

import (
	"context"
	"io"

	"github.com/segmentio/kafka-go"

	"cryptopulse/internal/metrics"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

// Consumer handles Kafka message consumption
type Consumer struct {
	reader *kafka.Reader
	topic  string
	log    *logger.Logger
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int

	// Latest starts a group-less reader at the end of the topic
	Latest bool
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(cfg ConsumerConfig) *Consumer {
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 10e3 // 10KB
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10e6 // 10MB
	}

	log := logger.Get().With("component", "kafka_consumer", "topic", cfg.Topic)

	startOffset := kafka.FirstOffset // Start from beginning if no offset committed
	if cfg.Latest {
		startOffset = kafka.LastOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		StartOffset: startOffset,
	})

	log.Infow("Kafka consumer created",
		"brokers", cfg.Brokers,
		"group_id", cfg.GroupID,
		"topic", cfg.Topic,
	)

	return &Consumer{
		reader: reader,
		topic:  cfg.Topic,
		log:    log,
	}
}

// MessageHandler processes one message
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// Consume reads until ctx is cancelled or the reader is closed. Handler errors
// are logged and counted, then the message is skipped.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	c.log.Info("Starting consumer...")

	for {
		msg, err := c.ReadMessageWithShutdownCheck(ctx)
		switch {
		case ctx.Err() != nil:
			c.log.Info("Consumer stopped")
			return ctx.Err()
		case errors.Is(err, io.EOF):
			return errors.Wrap(err, "kafka reader closed")
		case err != nil:
			c.log.Warnw("Failed to read message", "error", err)
			continue
		}

		herr := handler(ctx, msg)
		metrics.RecordKafkaMessages(c.topic, 1, herr)
		if herr != nil {
			c.log.Warnw("Failed to handle message",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", herr,
			)
		}
	}
}

// ReadMessageWithShutdownCheck checks for shutdown before blocking on the reader
func (c *Consumer) ReadMessageWithShutdownCheck(ctx context.Context) (kafka.Message, error) {
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}

	msg, err := c.reader.ReadMessage(ctx)
	if err != nil && ctx.Err() != nil {
		return kafka.Message{}, ctx.Err()
	}
	return msg, err
}

// Close closes the consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
