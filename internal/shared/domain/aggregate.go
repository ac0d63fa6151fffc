package domain

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is embedded by every persisted aggregate. It carries the
// process-unique identity, the optimistic-concurrency version, and the
// in-memory buffer of domain events raised since the last flush.
//
// Mutation methods on the aggregate append to the buffer; only the
// persistence layer clears it, and only after a successful save.
type AggregateRoot struct {
	ID      uuid.UUID
	Version int

	events []Event
}

// NewAggregateRoot assigns a fresh identity. The identity is immutable
// from the caller's point of view after construction.
func NewAggregateRoot() AggregateRoot {
	return AggregateRoot{ID: uuid.New()}
}

// Record appends an event to the aggregate's buffer in raise order.
func (a *AggregateRoot) Record(e Event) {
	a.events = append(a.events, e)
}

// DomainEvents returns the buffered events in raise order.
func (a *AggregateRoot) DomainEvents() []Event {
	return a.events
}

// ClearDomainEvents empties the buffer. Called by the persistence layer
// after dispatch so repeated saves cannot redeliver events.
func (a *AggregateRoot) ClearDomainEvents() {
	a.events = nil
}

// AuditInfo records who created and who last modified an aggregate.
// Creation fields are written exactly once, at first persistence.
type AuditInfo struct {
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
}

// StampCreated sets the creation stamp. The persistence layer calls it
// for newly added entities with a single shared timestamp per save.
func (a *AuditInfo) StampCreated(at time.Time, by string) {
	a.CreatedAt = at
	a.CreatedBy = by
}

// StampModified sets the last-modification stamp.
func (a *AuditInfo) StampModified(at time.Time, by string) {
	a.UpdatedAt = at
	a.UpdatedBy = by
}

// SoftDelete is embedded by aggregates whose deletions must never
// physically remove rows. Absent until a delete is requested.
type SoftDelete struct {
	Deleted   bool
	DeletedAt *time.Time
	DeletedBy string
}

// MarkDeleted flips the aggregate into the logically deleted state.
func (s *SoftDelete) MarkDeleted(at time.Time, by string) {
	s.Deleted = true
	s.DeletedAt = &at
	s.DeletedBy = by
}

// Restore reverses a soft delete. Used by administrative flows that read
// through the deleted-row bypass.
func (s *SoftDelete) Restore() {
	s.Deleted = false
	s.DeletedAt = nil
	s.DeletedBy = ""
}

// IsSoftDeleted reports whether the aggregate is logically deleted.
func (s *SoftDelete) IsSoftDeleted() bool { return s.Deleted }
