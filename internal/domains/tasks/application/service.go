package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	boarddomain "github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	"github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
	"github.com/taskhive/taskhive-api/internal/domains/tasks/ports"
	shareduow "github.com/taskhive/taskhive-api/internal/shared/uow"
)

var _ ports.Service = (*Service)(nil)

// Service orchestrates the tasks bounded context use cases. Each call
// builds one Unit of Work scoped to that call.
type Service struct {
	uow shareduow.Factory
	now func() time.Time
}

// NewService wires the tasks service with its dependencies.
func NewService(factory shareduow.Factory) *Service {
	return &Service{uow: factory, now: time.Now}
}

// CreateTask validates the target board and persists a new task.
func (s *Service) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	u := s.uow.New()
	board, err := u.Boards().GetByID(ctx, input.BoardID)
	if err != nil {
		return nil, mapError(err)
	}
	if board.Archived {
		return nil, mapError(boarddomain.ErrAlreadyArchived)
	}
	task, err := domain.NewTask(input.BoardID, input.Title, input.Description)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Priority != nil {
		if err := task.Reprioritize(*input.Priority); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Assignee != "" {
		task.Assign(input.Assignee)
	}
	if len(input.Labels) > 0 {
		task.Relabel(input.Labels)
	}
	if err := task.Schedule(input.DueAt, s.now().UTC()); err != nil {
		return nil, mapError(err)
	}
	if err := u.Tasks().Add(ctx, task); err != nil {
		return nil, mapError(err)
	}
	if _, err := u.SaveChanges(ctx); err != nil {
		return nil, mapError(err)
	}
	return task, nil
}

// UpdateTask applies a partial mutation to an existing task.
func (s *Service) UpdateTask(ctx context.Context, input ports.UpdateTaskInput) (*domain.Task, error) {
	u := s.uow.New()
	task, err := u.Tasks().GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Title != nil {
		if err := task.Retitle(*input.Title); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Description != nil {
		task.Describe(*input.Description)
	}
	if input.Priority != nil {
		if err := task.Reprioritize(*input.Priority); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Labels != nil {
		task.Relabel(input.Labels)
	}
	if input.ClearDueAt {
		if err := task.Schedule(nil, s.now().UTC()); err != nil {
			return nil, mapError(err)
		}
	} else if input.DueAt != nil {
		if err := task.Schedule(input.DueAt, s.now().UTC()); err != nil {
			return nil, mapError(err)
		}
	}
	return s.saveUpdated(ctx, u, task)
}

// MoveTask transitions a task to another column.
func (s *Service) MoveTask(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.Task, error) {
	u := s.uow.New()
	task, err := u.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := task.MoveTo(status); err != nil {
		return nil, mapError(err)
	}
	return s.saveUpdated(ctx, u, task)
}

// AssignTask hands a task to someone; empty assignee unassigns.
func (s *Service) AssignTask(ctx context.Context, id uuid.UUID, assignee string) (*domain.Task, error) {
	u := s.uow.New()
	task, err := u.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	task.Assign(assignee)
	return s.saveUpdated(ctx, u, task)
}

// DeleteTask soft-deletes the task; the row survives for audit history.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	u := s.uow.New()
	task, err := u.Tasks().GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	task.FlagDeleted()
	if err := u.Tasks().Remove(ctx, task); err != nil {
		return mapError(err)
	}
	if _, err := u.SaveChanges(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// RestoreTask undeletes a task through the soft-delete bypass.
func (s *Service) RestoreTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	u := s.uow.New()
	task, err := u.Tasks().GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if !task.IsSoftDeleted() {
		return task, nil
	}
	task.Restore()
	return s.saveUpdated(ctx, u, task)
}

// GetTask loads a single task aggregate.
func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.uow.New().Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return task, nil
}

// ListByBoard returns the board's active tasks.
func (s *Service) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.uow.New().Tasks().ListByBoard(ctx, boardID)
	if err != nil {
		return nil, mapError(err)
	}
	return tasks, nil
}

// ListByStatus returns active tasks in the given column.
func (s *Service) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error) {
	tasks, err := s.uow.New().Tasks().ListByStatus(ctx, status)
	if err != nil {
		return nil, mapError(err)
	}
	return tasks, nil
}

func (s *Service) saveUpdated(ctx context.Context, u shareduow.UnitOfWork, task *domain.Task) (*domain.Task, error) {
	if err := u.Tasks().Update(ctx, task); err != nil {
		return nil, mapError(err)
	}
	if _, err := u.SaveChanges(ctx); err != nil {
		return nil, mapError(err)
	}
	return task, nil
}
