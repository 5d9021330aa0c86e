// Package events defines the envelope shared by every published domain event.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent exposes the envelope fields consumers route and deduplicate on.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	TenantID() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events. Its exported fields flatten into
// the event's JSON next to the payload.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	AggID     string    `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
	Tenant    string    `json:"tenant_id"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewBaseEvent stamps a fresh event ID. The caller supplies occurredAt so
// aggregates never read a clock.
func NewBaseEvent(eventType, aggregateID, aggregateType, tenantID string, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		AggID:     aggregateID,
		AggType:   aggregateType,
		Tenant:    tenantID,
		Timestamp: occurredAt.UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.AggID }
func (e BaseEvent) AggregateType() string { return e.AggType }
func (e BaseEvent) TenantID() string      { return e.Tenant }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// Headers renders the envelope as transport headers.
func Headers(e DomainEvent) map[string]string {
	return map[string]string{
		"event_id":       e.EventID(),
		"event_type":     e.EventType(),
		"aggregate_type": e.AggregateType(),
		"tenant_id":      e.TenantID(),
		"occurred_at":    e.OccurredAt().UTC().Format(time.RFC3339Nano),
	}
}
