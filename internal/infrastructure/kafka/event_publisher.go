package kafka

import (
	"context"
	"log/slog"

	"github.com/olonibua/agricgrow-sub000/internal/domain/event"
	pkgevents "github.com/olonibua/agricgrow-sub000/pkg/events"
)

// EventPublisher implements port.EventPublisher. Events are keyed by
// aggregate ID so a loan's events stay ordered within a partition.
type EventPublisher struct {
	out    topicWriter
	logger *slog.Logger
}

func NewEventPublisher(writer MessageWriter, topic string, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{out: topicWriter{writer: writer, topic: topic}, logger: logger}
}

func (p *EventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	n, err := send(ctx, p.out, events,
		func(e event.DomainEvent) string { return e.AggregateID() },
		func(e event.DomainEvent) map[string]string { return pkgevents.Headers(e) },
	)
	if err != nil {
		return err
	}
	if n > 0 {
		p.logger.DebugContext(ctx, "domain events published",
			"count", n,
			"first_type", events[0].EventType(),
			"aggregate_id", events[0].AggregateID(),
			"topic", p.out.topic,
		)
	}
	return nil
}
