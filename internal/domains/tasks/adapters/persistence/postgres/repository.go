package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
	"github.com/taskhive/taskhive-api/internal/domains/tasks/ports"
	"github.com/taskhive/taskhive-api/internal/platform/persistence"
	shared "github.com/taskhive/taskhive-api/internal/shared/domain"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists tasks through the shared change-tracking session.
type Repository struct {
	pctx *persistence.Context
}

// NewRepository binds a task repository to one persistence context.
func NewRepository(pctx *persistence.Context) *Repository {
	return &Repository{pctx: pctx}
}

type taskRecord struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;column:id"`
	BoardID     uuid.UUID      `gorm:"type:uuid;column:board_id;index"`
	Title       string         `gorm:"column:title"`
	Description string         `gorm:"column:description"`
	Status      string         `gorm:"column:status;type:varchar(32);index"`
	Priority    string         `gorm:"column:priority;type:varchar(16)"`
	Assignee    string         `gorm:"column:assignee;index"`
	Labels      pq.StringArray `gorm:"column:labels;type:text[]"`
	DueAt       *time.Time     `gorm:"column:due_at"`
	Version     int            `gorm:"column:version"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime:false"`
	CreatedBy   string         `gorm:"column:created_by"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime:false"`
	UpdatedBy   string         `gorm:"column:updated_by"`
	IsDeleted   bool           `gorm:"column:is_deleted;index"`
	DeletedAt   *time.Time     `gorm:"column:deleted_at;index"`
	DeletedBy   string         `gorm:"column:deleted_by"`
}

func (taskRecord) TableName() string { return "tasks" }

// Add registers the task as newly created.
func (r *Repository) Add(_ context.Context, task *domain.Task) error {
	r.pctx.Register(persistence.StateAdded, task, persistence.EntityOps{
		Create: func(tx *gorm.DB) error {
			record := toRecord(task)
			record.Version = 1
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			task.Version = record.Version
			return nil
		},
	})
	return nil
}

// Update registers the task as modified.
func (r *Repository) Update(_ context.Context, task *domain.Task) error {
	r.pctx.Register(persistence.StateModified, task, persistence.EntityOps{
		Update: r.guardedUpdate(task),
	})
	return nil
}

// Remove registers a deletion. The save pipeline rewrites it to a
// soft-delete update because Task carries the soft-delete capability.
func (r *Repository) Remove(_ context.Context, task *domain.Task) error {
	r.pctx.Register(persistence.StateDeleted, task, persistence.EntityOps{
		Update: r.guardedUpdate(task),
		Delete: func(tx *gorm.DB) error {
			return tx.Delete(&taskRecord{}, "id = ?", task.ID).Error
		},
	})
	return nil
}

func (r *Repository) guardedUpdate(task *domain.Task) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		next := task.Version + 1
		result := tx.Model(&taskRecord{}).
			Where("id = ? AND version = ?", task.ID, task.Version).
			Updates(map[string]any{
				"title":       task.Title,
				"description": task.Description,
				"status":      string(task.Status),
				"priority":    string(task.Priority),
				"assignee":    task.Assignee,
				"labels":      pq.StringArray(task.Labels),
				"due_at":      task.DueAt,
				"version":     next,
				"updated_at":  task.UpdatedAt,
				"updated_by":  task.UpdatedBy,
				"is_deleted":  task.Deleted,
				"deleted_at":  task.DeletedAt,
				"deleted_by":  task.DeletedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %w", ports.ErrConflict, persistence.ErrConcurrencyConflict)
		}
		task.Version = next
		return nil
	}
}

// GetByID fetches a task; soft-deleted rows are filtered out.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var record taskRecord
	if err := r.pctx.DB().WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err)
	}
	return record.toDomain(), nil
}

// GetByIDIncludingDeleted is the bypass path for restore flows.
func (r *Repository) GetByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var record taskRecord
	db := persistence.IncludeDeleted(r.pctx.DB().WithContext(ctx))
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err)
	}
	return record.toDomain(), nil
}

// ListByBoard returns the board's non-deleted tasks, oldest first.
func (r *Repository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	var records []taskRecord
	err := r.pctx.DB().WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

// ListByStatus returns non-deleted tasks in the given column.
func (r *Repository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error) {
	var records []taskRecord
	err := r.pctx.DB().WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

// PurgeDeletedBefore hard-deletes rows soft-deleted before the cutoff.
// Maintenance path used by the purge job; bypasses the change set.
func (r *Repository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := persistence.IncludeDeleted(r.pctx.DB().WithContext(ctx)).
		Where("is_deleted = ? AND deleted_at < ?", true, cutoff).
		Delete(&taskRecord{})
	return result.RowsAffected, result.Error
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.ErrNotFound
	}
	return err
}

func toDomainSlice(records []taskRecord) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(records))
	for i := range records {
		tasks = append(tasks, records[i].toDomain())
	}
	return tasks
}

func toRecord(task *domain.Task) taskRecord {
	return taskRecord{
		ID:          task.ID,
		BoardID:     task.BoardID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		Assignee:    task.Assignee,
		Labels:      pq.StringArray(task.Labels),
		DueAt:       task.DueAt,
		Version:     task.Version,
		CreatedAt:   task.CreatedAt,
		CreatedBy:   task.CreatedBy,
		UpdatedAt:   task.UpdatedAt,
		UpdatedBy:   task.UpdatedBy,
		IsDeleted:   task.Deleted,
		DeletedAt:   task.DeletedAt,
		DeletedBy:   task.DeletedBy,
	}
}

func (r taskRecord) toDomain() *domain.Task {
	return &domain.Task{
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
		BoardID:     r.BoardID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.Status(r.Status),
		Priority:    domain.Priority(r.Priority),
		Assignee:    r.Assignee,
		Labels:      []string(r.Labels),
		DueAt:       r.DueAt,
	}
}
