package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is raised by aggregates when something business-relevant happens
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// BaseDomainEvent provides common fields for domain events
type BaseDomainEvent struct {
	ID            uuid.UUID
	Type          string
	Occurred      time.Time
	AggregateUUID uuid.UUID
	Aggregate     string
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType string, aggregateID uuid.UUID, aggregateType string) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Occurred:      time.Now(),
		AggregateUUID: aggregateID,
		Aggregate:     aggregateType,
	}
}

// EventID returns the unique event identifier
func (e BaseDomainEvent) EventID() uuid.UUID { return e.ID }

// EventType returns the event type name
func (e BaseDomainEvent) EventType() string { return e.Type }

// OccurredAt returns when the event occurred
func (e BaseDomainEvent) OccurredAt() time.Time { return e.Occurred }

// AggregateID returns the owning aggregate's ID
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.AggregateUUID }

// AggregateType returns the owning aggregate's type name
func (e BaseDomainEvent) AggregateType() string { return e.Aggregate }
