package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
	"github.com/taskhive/taskhive-api/internal/domains/tasks/ports"
)

const tracerName = "github.com/taskhive/taskhive-api/internal/domains/tasks/adapters/observability/service"

// Service decorates the tasks application port with tracing, logging, and
// metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateTask persists a new task aggregate with instrumentation.
func (s *Service) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateTask", attribute.String("board.id", input.BoardID.String()))
	defer span.End()

	result, err := s.inner.CreateTask(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create task", slog.String("board.id", input.BoardID.String()))
	}
	s.metrics.recordCreated(ctx, result.Status)
	s.logInfo(ctx, "task created", slog.String("task.id", result.ID.String()), slog.String("board.id", result.BoardID.String()))
	return result, nil
}

// UpdateTask applies a partial mutation with instrumentation.
func (s *Service) UpdateTask(ctx context.Context, input ports.UpdateTaskInput) (*domain.Task, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateTask", attribute.String("task.id", input.ID.String()))
	defer span.End()

	result, err := s.inner.UpdateTask(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update task", slog.String("task.id", input.ID.String()))
	}
	s.logInfo(ctx, "task updated", slog.String("task.id", result.ID.String()))
	return result, nil
}

// MoveTask transitions a task between columns with instrumentation.
func (s *Service) MoveTask(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.Task, error) {
	ctx, span := s.startSpan(ctx, "Service.MoveTask",
		attribute.String("task.id", id.String()),
		attribute.String("task.status", string(status)))
	defer span.End()

	result, err := s.inner.MoveTask(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to move task", slog.String("task.id", id.String()))
	}
	s.metrics.recordMoved(ctx, result.Status)
	s.logInfo(ctx, "task moved", slog.String("task.id", id.String()), slog.String("status", string(result.Status)))
	return result, nil
}

// AssignTask changes the assignee with instrumentation.
func (s *Service) AssignTask(ctx context.Context, id uuid.UUID, assignee string) (*domain.Task, error) {
	ctx, span := s.startSpan(ctx, "Service.AssignTask", attribute.String("task.id", id.String()))
	defer span.End()

	result, err := s.inner.AssignTask(ctx, id, assignee)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to assign task", slog.String("task.id", id.String()))
	}
	s.logInfo(ctx, "task assigned", slog.String("task.id", id.String()), slog.String("assignee", assignee))
	return result, nil
}

// DeleteTask soft-deletes a task with instrumentation.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteTask", attribute.String("task.id", id.String()))
	defer span.End()

	if err := s.inner.DeleteTask(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete task", slog.String("task.id", id.String()))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "task deleted", slog.String("task.id", id.String()))
	return nil
}

// RestoreTask undeletes a task with instrumentation.
func (s *Service) RestoreTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	ctx, span := s.startSpan(ctx, "Service.RestoreTask", attribute.String("task.id", id.String()))
	defer span.End()

	result, err := s.inner.RestoreTask(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to restore task", slog.String("task.id", id.String()))
	}
	s.logInfo(ctx, "task restored", slog.String("task.id", id.String()))
	return result, nil
}

// GetTask loads a single task with instrumentation.
func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	ctx, span := s.startSpan(ctx, "Service.GetTask", attribute.String("task.id", id.String()))
	defer span.End()

	result, err := s.inner.GetTask(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get task", slog.String("task.id", id.String()))
	}
	return result, nil
}

// ListByBoard lists the board's tasks with instrumentation.
func (s *Service) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByBoard", attribute.String("board.id", boardID.String()))
	defer span.End()

	result, err := s.inner.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list tasks by board", slog.String("board.id", boardID.String()))
	}
	span.SetAttributes(attribute.Int("task.result.count", len(result)))
	return result, nil
}

// ListByStatus lists tasks in a column with instrumentation.
func (s *Service) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByStatus", attribute.String("task.status", string(status)))
	defer span.End()

	result, err := s.inner.ListByStatus(ctx, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list tasks by status", slog.String("status", string(status)))
	}
	span.SetAttributes(attribute.Int("task.result.count", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.recordError(ctx)
	args := make([]any, 0, len(attrs)+1)
	for _, attr := range attrs {
		args = append(args, attr)
	}
	args = append(args, slog.String("error", err.Error()))
	s.logger.ErrorContext(ctx, msg, args...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	s.logger.InfoContext(ctx, msg, args...)
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
