package migrations

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&boardRecord{},
		&taskRecord{},
	)
}

// Board schema mirrors the boards Postgres adapter.
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

// Task schema mirrors the tasks Postgres adapter.
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
