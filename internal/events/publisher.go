// Package events publishes sentiment pipeline events to Kafka as protobuf.
package events

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"

	"cryptopulse/internal/adapters/kafka"
	"cryptopulse/internal/domain/sentiment"
	eventspb "cryptopulse/internal/events/proto"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

const headerEventType = "event_type"

// IngestionCompleted summarises one collector run
type IngestionCompleted struct {
	Worker   string
	Records  int64
	Assets   int
	Failures int
	Duration time.Duration
}

// BatchProducer is the subset of the Kafka producer the publisher needs
type BatchProducer interface {
	PublishBatch(ctx context.Context, topic string, messages []kafkago.Message) error
}

// Publisher publishes events to Kafka
type Publisher struct {
	producer BatchProducer
	source   string
	now      func() time.Time
	log      *logger.Logger
}

// NewPublisher creates a new event publisher. source names the emitting service.
func NewPublisher(producer BatchProducer, source string, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Get()
	}
	return &Publisher{
		producer: producer,
		source:   source,
		now:      time.Now,
		log:      log.With("component", "event_publisher"),
	}
}

// PublishNormalized sends one event per record keyed by symbol, in a single batch
func (p *Publisher) PublishNormalized(ctx context.Context, records []sentiment.NormalizedRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := p.now()
	messages := make([]kafkago.Message, 0, len(records))
	for _, rec := range records {
		event := NormalizedEvent(NewBaseEvent(TypeSentimentNormalized, p.source, now), rec)
		msg, err := message(TypeSentimentNormalized, rec.Symbol, event)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	return p.publish(ctx, kafka.TopicSentimentNormalized, messages)
}

// PublishIngestionCompleted announces a finished collector run
func (p *Publisher) PublishIngestionCompleted(ctx context.Context, summary IngestionCompleted) error {
	event := &eventspb.IngestionCompletedEvent{
		Base:       NewBaseEvent(TypeIngestionCompleted, p.source, p.now()),
		Worker:     summary.Worker,
		Records:    summary.Records,
		Assets:     int32(summary.Assets),
		Failures:   int32(summary.Failures),
		DurationMs: summary.Duration.Milliseconds(),
	}

	msg, err := message(TypeIngestionCompleted, summary.Worker, event)
	if err != nil {
		return err
	}
	return p.publish(ctx, kafka.TopicIngestionCompleted, []kafkago.Message{msg})
}

func (p *Publisher) publish(ctx context.Context, topic string, messages []kafkago.Message) error {
	if err := p.producer.PublishBatch(ctx, topic, messages); err != nil {
		return errors.Wrap(err, "send to kafka")
	}

	p.log.Debugw("Events published", "topic", topic, "count", len(messages))
	return nil
}

func message(eventType, key string, event proto.Message) (kafkago.Message, error) {
	data, err := proto.Marshal(event)
	if err != nil {
		return kafkago.Message{}, errors.Wrapf(err, "marshal %s protobuf", eventType)
	}

	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: headerEventType, Value: []byte(eventType)},
		},
	}, nil
}

// DecodeNormalized parses a sentiment.normalized message
func DecodeNormalized(msg kafkago.Message) (*eventspb.BaseEvent, sentiment.NormalizedRecord, error) {
	for _, h := range msg.Headers {
		if h.Key == headerEventType && string(h.Value) != TypeSentimentNormalized {
			return nil, sentiment.NormalizedRecord{}, errors.Wrapf(errors.ErrInvalidInput, "unexpected event type %q", h.Value)
		}
	}

	var event eventspb.SentimentNormalizedEvent
	if err := proto.Unmarshal(msg.Value, &event); err != nil {
		return nil, sentiment.NormalizedRecord{}, errors.Wrap(err, "decode normalized event")
	}

	base := event.GetBase()
	if base.GetType() != TypeSentimentNormalized {
		return base, sentiment.NormalizedRecord{}, errors.Wrapf(errors.ErrInvalidInput, "unexpected event type %q", base.GetType())
	}
	return base, RecordFromEvent(&event), nil
}
