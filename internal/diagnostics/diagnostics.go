// Package diagnostics carries the internal reason behind prediction failures to
// operators. Callers of the inference service only ever see the generic
// failure; the distinction between an unknown country and a broken model lives
// here.
package diagnostics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event describes one failed prediction.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Country    string    `json:"country"`
	ModelKind  string    `json:"model_kind,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps a failure with an ID and time.
func NewEvent(kind, country string, err error, now time.Time) Event {
	e := Event{
		ID:         uuid.New(),
		Kind:       kind,
		Country:    country,
		OccurredAt: now.UTC(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// Publisher receives failure events. Implementations must not block the
// request path for long and must not fail the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// LogPublisher writes events to a structured logger.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) {
	p.logger.WarnContext(ctx, "prediction failed",
		"event_id", event.ID,
		"kind", event.Kind,
		"country", event.Country,
		"model_kind", event.ModelKind,
		"request_id", event.RequestID,
		"error", event.Error,
	)
}

// Multi fans an event out to every publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, event)
		}
	}
}
