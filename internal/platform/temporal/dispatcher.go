// Package temporal adapts the Temporal client to the save pipeline's
// dispatcher seam.
package temporal

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	enums "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/taskhive/taskhive-api/internal/platform/persistence"
	"github.com/taskhive/taskhive-api/internal/platform/temporal/relay"
	"github.com/taskhive/taskhive-api/internal/shared/domain"
)

var _ persistence.Dispatcher = (*Dispatcher)(nil)

// Dispatcher forwards each drained event batch to one relay workflow.
// It only starts the workflow; delivery retries happen inside it.
type Dispatcher struct {
	client client.Client
	logger *slog.Logger
}

// NewDispatcher wires a Temporal-backed event dispatcher.
func NewDispatcher(c client.Client, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{client: c, logger: logger}
}

// Dispatch serializes the batch and starts the relay workflow.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.Event) error {
	envelopes, err := relay.Envelop(events)
	if err != nil {
		return err
	}
	options := client.StartWorkflowOptions{
		ID:                    "event-relay-" + uuid.NewString(),
		TaskQueue:             relay.TaskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}
	run, err := d.client.ExecuteWorkflow(ctx, options, relay.WorkflowName, envelopes)
	if err != nil {
		return err
	}
	if d.logger != nil {
		d.logger.Debug("event relay workflow started",
			slog.String("workflowId", run.GetID()),
			slog.Int("events", len(envelopes)))
	}
	return nil
}
