// Package persistence implements the save pipeline shared by every
// repository: audit stamping with one timestamp per save, rewriting hard
// deletes into soft deletes, and dispatching buffered domain events only
// after the physical write has succeeded.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/taskhive/taskhive-api/internal/shared/domain"
)

var (
	// ErrConcurrencyConflict signals an optimistic-concurrency version
	// mismatch. The caller decides whether to retry or report a conflict;
	// this layer never retries.
	ErrConcurrencyConflict = errors.New("optimistic concurrency conflict")

	// ErrNoTransaction is returned when commit is requested without an
	// active transaction.
	ErrNoTransaction = errors.New("no active transaction")
)

// EntityState describes the tracked intent for a registered aggregate.
type EntityState int

const (
	StateAdded EntityState = iota + 1
	StateModified
	StateDeleted
)

// Auditable is the capability checked during audit stamping. The shared
// domain.AuditInfo satisfies it by embedding.
type Auditable interface {
	StampCreated(at time.Time, by string)
	StampModified(at time.Time, by string)
}

// SoftDeletable marks aggregates whose deletions are rewritten to updates.
type SoftDeletable interface {
	MarkDeleted(at time.Time, by string)
	IsSoftDeleted() bool
}

// EventSource exposes the aggregate's domain event buffer to the pipeline.
type EventSource interface {
	DomainEvents() []domain.Event
	ClearDomainEvents()
}

// Dispatcher receives drained domain events strictly after a durable
// commit. The transport behind it (in-process bus, Temporal relay) is an
// external collaborator; delivery retries belong to it, not to this layer.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []domain.Event) error
}

// EntityOps carries the physical write operations a repository binds to a
// registered aggregate. The pipeline picks one of them based on the entry's
// (possibly rewritten) state.
type EntityOps struct {
	Create func(tx *gorm.DB) error
	Update func(tx *gorm.DB) error
	Delete func(tx *gorm.DB) error
}

type entry struct {
	state EntityState
	agg   any
	ops   EntityOps
}

// Context owns one change-tracking session over a GORM connection. One
// Context serves exactly one logical request; it is not safe for use by
// concurrent operations and must never be cached as a singleton.
type Context struct {
	db         *gorm.DB
	tx         *gorm.DB
	current    *Transaction
	dispatcher Dispatcher
	actors     ActorProvider
	now        func() time.Time
	logger     *slog.Logger
	pending    []entry

	// txSources accumulates event owners flushed inside an explicit
	// transaction; their buffers are drained only once the commit lands.
	txSources []EventSource
}

// Option customizes a Context.
type Option func(*Context)

// WithDispatcher wires the post-commit event dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Context) { c.dispatcher = d }
}

// WithActorProvider overrides the audit identity source.
func WithActorProvider(p ActorProvider) Option {
	return func(c *Context) { c.actors = p }
}

// WithClock overrides the time source. Tests use it to pin "now".
func WithClock(now func() time.Time) Option {
	return func(c *Context) { c.now = now }
}

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// NewContext builds a change-tracking session over db.
func NewContext(db *gorm.DB, opts ...Option) *Context {
	c := &Context{
		db:     db,
		actors: ContextActorProvider{},
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// DB returns the handle repository queries must use: the active
// transaction when one is open, the base connection otherwise.
func (c *Context) DB() *gorm.DB {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

// Register tracks an aggregate with the given intent. Repositories call it
// from Add/Update/Remove; they never flush themselves.
func (c *Context) Register(state EntityState, agg any, ops EntityOps) {
	c.pending = append(c.pending, entry{state: state, agg: agg, ops: ops})
}

// Pending reports the number of tracked, unflushed entries.
func (c *Context) Pending() int { return len(c.pending) }

// SaveChanges flushes the change set and returns the number of entries
// written. All audit stamps within one call share a single timestamp and
// acting identity. Deletions of soft-deletable aggregates are rewritten to
// updates before the write, so no such row is ever physically removed on
// this path. Events are dispatched only after the write succeeds; a
// dispatcher failure is logged but never reverts the committed state.
func (c *Context) SaveChanges(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(c.pending) == 0 {
		return 0, nil
	}

	now := c.now().UTC()
	actor := c.actors.Actor(ctx)

	entries := c.pending
	c.pending = nil

	for i := range entries {
		e := &entries[i]
		switch e.state {
		case StateAdded:
			if a, ok := e.agg.(Auditable); ok {
				a.StampCreated(now, actor)
			}
		case StateModified:
			if a, ok := e.agg.(Auditable); ok {
				a.StampModified(now, actor)
			}
		case StateDeleted:
			if sd, ok := e.agg.(SoftDeletable); ok {
				sd.MarkDeleted(now, actor)
				if a, ok := e.agg.(Auditable); ok {
					a.StampModified(now, actor)
				}
				e.state = StateModified
			}
		}
	}

	// Snapshot event owners before the write so a failed commit leaves
	// buffers intact and a successful one drains exactly these.
	sources := collectEventSources(entries)

	write := func(tx *gorm.DB) error {
		for i := range entries {
			if err := applyEntry(tx.WithContext(ctx), entries[i]); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if c.tx != nil {
		err = write(c.tx)
	} else {
		err = c.db.WithContext(ctx).Transaction(write)
	}
	if err != nil {
		// Keep the change set so the caller may retry after resolving
		// the failure; nothing was dispatched.
		c.pending = entries
		return 0, err
	}

	if c.tx != nil {
		// The write is not durable until the explicit transaction
		// commits; hold the event owners until then.
		c.txSources = append(c.txSources, sources...)
	} else {
		c.dispatch(ctx, drainEvents(sources))
	}
	return len(entries), nil
}

// dispatch hands drained events to the dispatcher. A failure here is
// logged and swallowed: the write is already durable and must not be
// reported as failed.
func (c *Context) dispatch(ctx context.Context, events []domain.Event) {
	if len(events) == 0 || c.dispatcher == nil {
		return
	}
	// Events describe already-durable facts; caller cancellation must
	// not suppress their delivery.
	dispatchCtx := context.WithoutCancel(ctx)
	if err := c.dispatcher.Dispatch(dispatchCtx, events); err != nil {
		c.logger.Error("domain event dispatch failed after commit",
			slog.Int("events", len(events)),
			slog.String("error", err.Error()))
	}
}

func applyEntry(tx *gorm.DB, e entry) error {
	var op func(*gorm.DB) error
	switch e.state {
	case StateAdded:
		op = e.ops.Create
	case StateModified:
		op = e.ops.Update
	case StateDeleted:
		op = e.ops.Delete
	}
	if op == nil {
		return fmt.Errorf("persistence: no operation bound for state %d", e.state)
	}
	return op(tx)
}

func collectEventSources(entries []entry) []EventSource {
	var sources []EventSource
	seen := make(map[EventSource]struct{})
	for i := range entries {
		src, ok := entries[i].agg.(EventSource)
		if !ok || len(src.DomainEvents()) == 0 {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		sources = append(sources, src)
	}
	return sources
}

func drainEvents(sources []EventSource) []domain.Event {
	var events []domain.Event
	for _, src := range sources {
		events = append(events, src.DomainEvents()...)
		src.ClearDomainEvents()
	}
	return events
}
