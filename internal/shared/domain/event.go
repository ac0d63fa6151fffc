package domain

import "time"

// Event is an immutable record of a fact that occurred on an aggregate.
// Events are owned by the aggregate that raised them until the persistence
// layer drains them after a durable commit.
type Event interface {
	// EventName returns the stable type tag of the event, e.g. "task.created".
	EventName() string
	// OccurredAt returns the moment the fact occurred, fixed at construction.
	OccurredAt() time.Time
}

// BaseEvent carries the name and timestamp shared by all domain events.
// Concrete events embed it and add their payload fields.
type BaseEvent struct {
	Name string    `json:"name"`
	At   time.Time `json:"occurredAt"`
}

// NewBaseEvent fixes the occurrence timestamp at construction time.
func NewBaseEvent(name string) BaseEvent {
	return BaseEvent{Name: name, At: time.Now().UTC()}
}

func (e BaseEvent) EventName() string     { return e.Name }
func (e BaseEvent) OccurredAt() time.Time { return e.At }
