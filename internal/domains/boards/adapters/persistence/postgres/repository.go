package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	"github.com/taskhive/taskhive-api/internal/domains/boards/ports"
	"github.com/taskhive/taskhive-api/internal/platform/persistence"
	shared "github.com/taskhive/taskhive-api/internal/shared/domain"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists boards through the shared change-tracking session.
// Mutations register intent only; the Unit of Work flushes them.
type Repository struct {
	pctx *persistence.Context
}

// NewRepository binds a board repository to one persistence context.
func NewRepository(pctx *persistence.Context) *Repository {
	return &Repository{pctx: pctx}
}

type boardRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:id"`
	Name        string     `gorm:"column:name;uniqueIndex"`
	Description string     `gorm:"column:description"`
	Archived    bool       `gorm:"column:archived;index"`
	Version     int        `gorm:"column:version"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime:false"`
	CreatedBy   string     `gorm:"column:created_by"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime:false"`
	UpdatedBy   string     `gorm:"column:updated_by"`
	IsDeleted   bool       `gorm:"column:is_deleted;index"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
	DeletedBy   string     `gorm:"column:deleted_by"`
}

func (boardRecord) TableName() string { return "boards" }

// Add registers the board as newly created.
func (r *Repository) Add(_ context.Context, board *domain.Board) error {
	r.pctx.Register(persistence.StateAdded, board, persistence.EntityOps{
		Create: func(tx *gorm.DB) error {
			record := toRecord(board)
			record.Version = 1
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			board.Version = record.Version
			return nil
		},
	})
	return nil
}

// Update registers the board as modified.
func (r *Repository) Update(_ context.Context, board *domain.Board) error {
	r.pctx.Register(persistence.StateModified, board, persistence.EntityOps{
		Update: r.guardedUpdate(board),
	})
	return nil
}

// Remove registers a deletion. The save pipeline rewrites it to a
// soft-delete update, so the update operation does the actual write.
func (r *Repository) Remove(_ context.Context, board *domain.Board) error {
	r.pctx.Register(persistence.StateDeleted, board, persistence.EntityOps{
		Update: r.guardedUpdate(board),
		Delete: func(tx *gorm.DB) error {
			return tx.Delete(&boardRecord{}, "id = ?", board.ID).Error
		},
	})
	return nil
}

// guardedUpdate writes every mutable column, guarded by the version token.
func (r *Repository) guardedUpdate(board *domain.Board) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		next := board.Version + 1
		result := tx.Model(&boardRecord{}).
			Where("id = ? AND version = ?", board.ID, board.Version).
			Updates(map[string]any{
				"name":        board.Name,
				"description": board.Description,
				"archived":    board.Archived,
				"version":     next,
				"updated_at":  board.UpdatedAt,
				"updated_by":  board.UpdatedBy,
				"is_deleted":  board.Deleted,
				"deleted_at":  board.DeletedAt,
				"deleted_by":  board.DeletedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %w", ports.ErrConflict, persistence.ErrConcurrencyConflict)
		}
		board.Version = next
		return nil
	}
}

// GetByID fetches a board; soft-deleted rows are filtered out.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var record boardRecord
	if err := r.pctx.DB().WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err)
	}
	return record.toDomain(), nil
}

// GetByIDIncludingDeleted is the bypass path for restore flows.
func (r *Repository) GetByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var record boardRecord
	db := persistence.IncludeDeleted(r.pctx.DB().WithContext(ctx))
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err)
	}
	return record.toDomain(), nil
}

// List returns all non-deleted boards, oldest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Board, error) {
	var records []boardRecord
	if err := r.pctx.DB().WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	boards := make([]*domain.Board, 0, len(records))
	for i := range records {
		boards = append(boards, records[i].toDomain())
	}
	return boards, nil
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.ErrNotFound
	}
	return err
}

func toRecord(board *domain.Board) boardRecord {
	return boardRecord{
		ID:          board.ID,
		Name:        board.Name,
		Description: board.Description,
		Archived:    board.Archived,
		Version:     board.Version,
		CreatedAt:   board.CreatedAt,
		CreatedBy:   board.CreatedBy,
		UpdatedAt:   board.UpdatedAt,
		UpdatedBy:   board.UpdatedBy,
		IsDeleted:   board.Deleted,
		DeletedAt:   board.DeletedAt,
		DeletedBy:   board.DeletedBy,
	}
}

func (r boardRecord) toDomain() *domain.Board {
	return &domain.Board{
		AggregateRoot: shared.AggregateRoot{ID: r.ID, Version: r.Version},
		AuditInfo: shared.AuditInfo{
			CreatedAt: r.CreatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedAt: r.UpdatedAt,
			UpdatedBy: r.UpdatedBy,
		},
		SoftDelete: shared.SoftDelete{
			Deleted:   r.IsDeleted,
			DeletedAt: r.DeletedAt,
			DeletedBy: r.DeletedBy,
		},
		Name:        r.Name,
		Description: r.Description,
		Archived:    r.Archived,
	}
}
