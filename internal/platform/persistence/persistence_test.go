package persistence

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive-api/internal/shared/domain"
)

// note is a soft-deletable test aggregate exercising the full pipeline.
type note struct {
	domain.AggregateRoot
	domain.AuditInfo
	domain.SoftDelete

	Body string
}

type noteRecord struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:id"`
	Body      string     `gorm:"column:body"`
	Version   int        `gorm:"column:version"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime:false"`
	CreatedBy string     `gorm:"column:created_by"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime:false"`
	UpdatedBy string     `gorm:"column:updated_by"`
	IsDeleted bool       `gorm:"column:is_deleted"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
	DeletedBy string     `gorm:"column:deleted_by"`
}

func (noteRecord) TableName() string { return "notes" }

// tag is audited but not soft-deletable, so deletions stay physical.
type tag struct {
	domain.AggregateRoot
	domain.AuditInfo

	Label string
}

type tagRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Label     string    `gorm:"column:label"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime:false"`
	CreatedBy string    `gorm:"column:created_by"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
	UpdatedBy string    `gorm:"column:updated_by"`
}

func (tagRecord) TableName() string { return "tags" }

type captureDispatcher struct {
	batches [][]domain.Event
	err     error
}

func (d *captureDispatcher) Dispatch(_ context.Context, events []domain.Event) error {
	d.batches = append(d.batches, events)
	return d.err
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "persistence_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, RegisterSoftDeleteFilter(db))
	require.NoError(t, db.AutoMigrate(&noteRecord{}, &tagRecord{}))
	return db
}

func newTestContext(t *testing.T, opts ...Option) (*Context, *captureDispatcher) {
	t.Helper()
	dispatcher := &captureDispatcher{}
	base := []Option{
		WithDispatcher(dispatcher),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return NewContext(openTestDB(t), append(base, opts...)...), dispatcher
}

func noteToRecord(n *note) noteRecord {
	return noteRecord{
		ID:        n.ID,
		Body:      n.Body,
		Version:   n.Version,
		CreatedAt: n.CreatedAt,
		CreatedBy: n.CreatedBy,
		UpdatedAt: n.UpdatedAt,
		UpdatedBy: n.UpdatedBy,
		IsDeleted: n.Deleted,
		DeletedAt: n.DeletedAt,
		DeletedBy: n.DeletedBy,
	}
}

func noteOps(n *note) EntityOps {
	return EntityOps{
		Create: func(tx *gorm.DB) error {
			record := noteToRecord(n)
			record.Version = 1
			return tx.Create(&record).Error
		},
		Update: func(tx *gorm.DB) error {
			return tx.Model(&noteRecord{}).Where("id = ?", n.ID).Updates(map[string]any{
				"body":       n.Body,
				"updated_at": n.UpdatedAt,
				"updated_by": n.UpdatedBy,
				"is_deleted": n.Deleted,
				"deleted_at": n.DeletedAt,
				"deleted_by": n.DeletedBy,
			}).Error
		},
		Delete: func(tx *gorm.DB) error {
			return tx.Delete(&noteRecord{}, "id = ?", n.ID).Error
		},
	}
}

func tagOps(g *tag) EntityOps {
	return EntityOps{
		Create: func(tx *gorm.DB) error {
			record := tagRecord{
				ID:        g.ID,
				Label:     g.Label,
				CreatedAt: g.CreatedAt,
				CreatedBy: g.CreatedBy,
				UpdatedAt: g.UpdatedAt,
				UpdatedBy: g.UpdatedBy,
			}
			return tx.Create(&record).Error
		},
		Delete: func(tx *gorm.DB) error {
			return tx.Delete(&tagRecord{}, "id = ?", g.ID).Error
		},
	}
}

func newNote(body string) *note {
	n := &note{AggregateRoot: domain.NewAggregateRoot(), Body: body}
	n.Record(domain.NewBaseEvent("note.created"))
	return n
}
