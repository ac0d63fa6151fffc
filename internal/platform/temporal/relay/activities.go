package relay

import (
	"context"
	"log/slog"
	"os"
)

// Consumer handles one delivered envelope on the worker side.
type Consumer func(ctx context.Context, envelope Envelope) error

// Activities hosts the delivery activity. The consumer is the seam where
// downstream integrations (notifications, read models) plug in.
type Activities struct {
	logger   *slog.Logger
	consumer Consumer
}

// NewActivities wires the delivery activity. A nil consumer falls back to
// structured logging of each event.
func NewActivities(logger *slog.Logger, consumer Consumer) *Activities {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	a := &Activities{logger: logger, consumer: consumer}
	if a.consumer == nil {
		a.consumer = a.logEvent
	}
	return a
}

// Deliver hands one envelope to the consumer.
func (a *Activities) Deliver(ctx context.Context, envelope Envelope) error {
	return a.consumer(ctx, envelope)
}

func (a *Activities) logEvent(ctx context.Context, envelope Envelope) error {
	a.logger.InfoContext(ctx, "domain event delivered",
		slog.String("event", envelope.Name),
		slog.Time("occurredAt", envelope.OccurredAt),
		slog.String("payload", string(envelope.Payload)))
	return nil
}
