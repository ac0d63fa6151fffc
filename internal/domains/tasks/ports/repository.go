package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
)

var (
	// ErrNotFound signals the task does not exist or is soft-deleted on
	// the default read path.
	ErrNotFound = errors.New("task not found")
	// ErrConflict signals an optimistic-concurrency version mismatch.
	ErrConflict = errors.New("task was modified concurrently")
)

// Repository is the typed persistence surface for tasks. Mutations only
// register intent with the change-tracking session; flushing is the
// Unit of Work's responsibility, never the repository's.
type Repository interface {
	Add(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Remove(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	// GetByIDIncludingDeleted bypasses the soft-delete read filter for
	// administrative and restore flows.
	GetByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error)
	// PurgeDeletedBefore physically removes rows soft-deleted before the
	// cutoff. Maintenance path; executes immediately, outside the change
	// set.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
