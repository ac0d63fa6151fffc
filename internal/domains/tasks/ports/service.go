package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
)

// CreateTaskInput carries the fields needed to put a task on a board.
type CreateTaskInput struct {
	BoardID     uuid.UUID
	Title       string
	Description string
	Priority    *domain.Priority
	Assignee    string
	Labels      []string
	DueAt       *time.Time
}

// UpdateTaskInput applies a partial mutation; nil fields stay untouched.
type UpdateTaskInput struct {
	ID          uuid.UUID
	Title       *string
	Description *string
	Priority    *domain.Priority
	Labels      []string
	DueAt       *time.Time
	ClearDueAt  bool
}

// Service is the application surface of the tasks bounded context,
// implemented by the core service and its observability decorator.
type Service interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, input UpdateTaskInput) (*domain.Task, error)
	MoveTask(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.Task, error)
	AssignTask(ctx context.Context, id uuid.UUID, assignee string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	RestoreTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error)
}
