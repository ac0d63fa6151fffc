package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
	"github.com/taskhive/taskhive-api/internal/domains/tasks/ports"
)

type serviceMetrics struct {
	tasksCreated metric.Int64Counter
	tasksMoved   metric.Int64Counter
	tasksDeleted metric.Int64Counter
	taskErrors   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	tasksCreated, _ := m.Int64Counter("tasks.service.created", metric.WithDescription("Number of tasks created"))
	tasksMoved, _ := m.Int64Counter("tasks.service.moved", metric.WithDescription("Number of task column transitions"))
	tasksDeleted, _ := m.Int64Counter("tasks.service.deleted", metric.WithDescription("Number of tasks soft-deleted"))
	taskErrors, _ := m.Int64Counter("tasks.service.errors", metric.WithDescription("Number of failed task operations"))
	return serviceMetrics{
		tasksCreated: tasksCreated,
		tasksMoved:   tasksMoved,
		tasksDeleted: tasksDeleted,
		taskErrors:   taskErrors,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.tasksCreated, 1, attribute.String("task.status", string(status)))
}

func (m serviceMetrics) recordMoved(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.tasksMoved, 1, attribute.String("task.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.tasksDeleted, 1)
}

func (m serviceMetrics) recordError(ctx context.Context) {
	addCounter(ctx, m.taskErrors, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
