package diagnostics

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the subset of *kgo.Client used to ship events.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// KafkaPublisher produces events as JSON records keyed by failure kind.
// Delivery is asynchronous; failures are logged and dropped.
type KafkaPublisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

func NewKafkaPublisher(producer Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode diagnostic event", "event_id", event.ID, "error", err)
		return
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Kind),
		Value: value,
	}
	// The request context is usually cancelled before the broker acks.
	produceCtx := context.WithoutCancel(ctx)
	p.producer.Produce(produceCtx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("failed to deliver diagnostic event",
				"event_id", event.ID,
				"topic", r.Topic,
				"error", err,
			)
		}
	})
}
