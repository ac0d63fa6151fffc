package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	shareduow "github.com/taskhive/taskhive-api/internal/shared/uow"
)

// Service orchestrates the boards bounded context use cases. Each call
// builds one Unit of Work scoped to that call.
type Service struct {
	uow shareduow.Factory
}

// NewService wires the boards service with its dependencies.
func NewService(factory shareduow.Factory) *Service {
	return &Service{uow: factory}
}

// CreateBoardInput carries the fields needed to open a new board.
type CreateBoardInput struct {
	Name        string
	Description string
}

// CreateBoard persists a new board aggregate.
func (s *Service) CreateBoard(ctx context.Context, input CreateBoardInput) (*domain.Board, error) {
	u := s.uow.New()
	board, err := domain.NewBoard(input.Name, input.Description)
	if err != nil {
		return nil, mapError(err)
	}
	if err := u.Boards().Add(ctx, board); err != nil {
		return nil, mapError(err)
	}
	if _, err := u.SaveChanges(ctx); err != nil {
		return nil, mapError(err)
	}
	return board, nil
}

// UpdateBoardInput applies a partial mutation; nil fields stay untouched.
type UpdateBoardInput struct {
	ID          uuid.UUID
	Name        *string
	Description *string
}

// UpdateBoard renames or re-describes an existing board.
func (s *Service) UpdateBoard(ctx context.Context, input UpdateBoardInput) (*domain.Board, error) {
	u := s.uow.New()
	board, err := u.Boards().GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Name != nil {
		if err := board.Rename(*input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Description != nil {
		board.Describe(*input.Description)
	}
	if err := u.Boards().Update(ctx, board); err != nil {
		return nil, mapError(err)
	}
	if _, err := u.SaveChanges(ctx); err != nil {
		return nil, mapError(err)
	}
	return board, nil
}

// ArchiveBoard archives the board and soft-deletes its remaining tasks in
// one transaction.
func (s *Service) ArchiveBoard(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	u := s.uow.New()
	if err := u.BeginTransaction(ctx); err != nil {
		return nil, mapError(err)
	}
	board, err := s.archiveWithTasks(ctx, u, id)
	if err != nil {
		_ = u.RollbackTransaction(ctx)
		return nil, mapError(err)
	}
	if err := u.CommitTransaction(ctx); err != nil {
		return nil, mapError(err)
	}
	return board, nil
}

func (s *Service) archiveWithTasks(ctx context.Context, u shareduow.UnitOfWork, id uuid.UUID) (*domain.Board, error) {
	board, err := u.Boards().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := board.Archive(); err != nil {
		return nil, err
	}
	if err := u.Boards().Update(ctx, board); err != nil {
		return nil, err
	}
	tasks, err := u.Tasks().ListByBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		task.FlagDeleted()
		if err := u.Tasks().Remove(ctx, task); err != nil {
			return nil, err
		}
	}
	return board, nil
}

// UnarchiveBoard returns an archived board to active use.
func (s *Service) UnarchiveBoard(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	u := s.uow.New()
	board, err := u.Boards().GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := board.Unarchive(); err != nil {
		return nil, mapError(err)
	}
	if err := u.Boards().Update(ctx, board); err != nil {
		return nil, mapError(err)
	}
	if _, err := u.SaveChanges(ctx); err != nil {
		return nil, mapError(err)
	}
	return board, nil
}

// DeleteBoard soft-deletes the board; the row survives for audit history.
func (s *Service) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	u := s.uow.New()
	board, err := u.Boards().GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if err := u.Boards().Remove(ctx, board); err != nil {
		return mapError(err)
	}
	if _, err := u.SaveChanges(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// RestoreBoard undeletes a board through the soft-delete bypass.
func (s *Service) RestoreBoard(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	u := s.uow.New()
	board, err := u.Boards().GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if !board.IsSoftDeleted() {
		return board, nil
	}
	board.Restore()
	if err := u.Boards().Update(ctx, board); err != nil {
		return nil, mapError(err)
	}
	if _, err := u.SaveChanges(ctx); err != nil {
		return nil, mapError(err)
	}
	return board, nil
}

// GetBoard loads a single board aggregate.
func (s *Service) GetBoard(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	board, err := s.uow.New().Boards().GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return board, nil
}

// ListBoards exposes all active boards.
func (s *Service) ListBoards(ctx context.Context) ([]*domain.Board, error) {
	boards, err := s.uow.New().Boards().List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return boards, nil
}
