// Package relay forwards committed domain events to asynchronous
// consumers through a Temporal workflow, one delivery activity per event.
package relay

import (
	"encoding/json"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/taskhive/taskhive-api/internal/shared/domain"
)

const (
	// TaskQueue hosts the relay workflow and its delivery activities.
	TaskQueue = "taskhive-events"
	// WorkflowName is the registered name of the relay workflow.
	WorkflowName = "EventRelayWorkflow"
	// DeliverEventActivityName is the registered delivery activity name.
	DeliverEventActivityName = "DeliverEvent"
)

// Envelope is the serialized form of a domain event crossing the
// workflow boundary.
type Envelope struct {
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Envelop serializes drained domain events in dispatch order.
func Envelop(events []domain.Event) ([]Envelope, error) {
	envelopes := make([]Envelope, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, Envelope{
			Name:       event.EventName(),
			OccurredAt: event.OccurredAt(),
			Payload:    payload,
		})
	}
	return envelopes, nil
}

// EventRelayWorkflow delivers each envelope in order. Delivery retries
// live here, not in the save pipeline: by the time a relay workflow
// starts, the facts it carries are already durable.
func EventRelayWorkflow(ctx workflow.Context, envelopes []Envelope) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("event relay started", "events", len(envelopes))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)
	for _, envelope := range envelopes {
		if err := workflow.ExecuteActivity(ctx, DeliverEventActivityName, envelope).Get(ctx, nil); err != nil {
			logger.Error("event delivery failed", "event", envelope.Name, "error", err)
			return err
		}
	}
	logger.Info("event relay completed", "events", len(envelopes))
	return nil
}
