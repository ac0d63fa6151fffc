package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domains/boards/domain"
)

var (
	// ErrNotFound signals the board does not exist or is soft-deleted on
	// the default read path.
	ErrNotFound = errors.New("board not found")
	// ErrConflict signals an optimistic-concurrency version mismatch.
	ErrConflict = errors.New("board was modified concurrently")
)

// Repository is the typed persistence surface for boards. Mutations only
// register intent with the change-tracking session; flushing is the
// Unit of Work's responsibility, never the repository's.
type Repository interface {
	Add(ctx context.Context, board *domain.Board) error
	Update(ctx context.Context, board *domain.Board) error
	Remove(ctx context.Context, board *domain.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	// GetByIDIncludingDeleted bypasses the soft-delete read filter for
	// administrative and restore flows.
	GetByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	List(ctx context.Context) ([]*domain.Board, error)
}
