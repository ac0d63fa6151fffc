// Package events provides the in-process dispatch mechanism the save
// pipeline hands drained domain events to.
package events

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/taskhive/taskhive-api/internal/shared/domain"
)

// Handler consumes one domain event. Handlers run synchronously on the
// dispatching goroutine; anything long-running belongs behind the Temporal
// relay instead.
type Handler func(ctx context.Context, event domain.Event) error

// Bus fans events out to handlers subscribed by event name. Delivery is
// at-most-once per handler per save: a handler error is logged and does
// not stop delivery to the remaining handlers, because the write that
// produced the event is already durable.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewBus builds an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Bus{handlers: make(map[string][]Handler), logger: logger}
}

// Subscribe registers a handler for the given event name. The wildcard
// "*" receives every event.
func (b *Bus) Subscribe(eventName string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], h)
}

// Dispatch delivers each event, in order, to its subscribers.
func (b *Bus) Dispatch(ctx context.Context, events []domain.Event) error {
	for _, event := range events {
		b.deliver(ctx, event)
	}
	return nil
}

// LogHandler returns a handler that records each event at info level.
// It is the default wildcard subscriber when no relay is configured.
func LogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event domain.Event) error {
		logger.InfoContext(ctx, "domain event",
			slog.String("event", event.EventName()),
			slog.Time("occurredAt", event.OccurredAt()))
		return nil
	}
}

func (b *Bus) deliver(ctx context.Context, event domain.Event) {
	b.mu.RLock()
	handlers := append(append([]Handler{}, b.handlers[event.EventName()]...), b.handlers["*"]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			b.logger.Error("event handler failed",
				slog.String("event", event.EventName()),
				slog.String("error", err.Error()))
		}
	}
}
