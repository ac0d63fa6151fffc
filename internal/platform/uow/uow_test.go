package uow

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

	boarddomain "github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	boardports "github.com/taskhive/taskhive-api/internal/domains/boards/ports"
	"github.com/taskhive/taskhive-api/internal/platform/persistence"
	"github.com/taskhive/taskhive-api/internal/shared/domain"
)

// boardTable mirrors the boards schema for the sqlite-backed tests.
type boardTable struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:id"`
	Name        string     `gorm:"column:name;uniqueIndex"`
	Description string     `gorm:"column:description"`
	Archived    bool       `gorm:"column:archived"`
	Version     int        `gorm:"column:version"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime:false"`
	CreatedBy   string     `gorm:"column:created_by"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime:false"`
	UpdatedBy   string     `gorm:"column:updated_by"`
	IsDeleted   bool       `gorm:"column:is_deleted"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
	DeletedBy   string     `gorm:"column:deleted_by"`
}

func (boardTable) TableName() string { return "boards" }

type captureDispatcher struct {
	events []domain.Event
}

func (d *captureDispatcher) Dispatch(_ context.Context, events []domain.Event) error {
	d.events = append(d.events, events...)
	return nil
}

func newTestFactory(t *testing.T) (*Factory, *captureDispatcher) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uow_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.RegisterSoftDeleteFilter(db))
	require.NoError(t, db.AutoMigrate(&boardTable{}))

	dispatcher := &captureDispatcher{}
	factory := NewFactory(db,
		persistence.WithDispatcher(dispatcher),
		persistence.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return factory, dispatcher
}

func TestUnitOfWork_AddAndGet(t *testing.T) {
	factory, dispatcher := newTestFactory(t)
	ctx := persistence.WithActor(context.Background(), "alice")
	u := factory.New()

	board, err := boarddomain.NewBoard("Roadmap", "planning")
	require.NoError(t, err)
	require.NoError(t, u.Boards().Add(ctx, board))

	count, err := u.SaveChanges(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, 1, board.Version)
	require.Equal(t, "alice", board.CreatedBy)
	require.False(t, board.CreatedAt.IsZero())

	loaded, err := factory.New().Boards().GetByID(ctx, board.ID)
	require.NoError(t, err)
	require.Equal(t, "Roadmap", loaded.Name)
	require.Equal(t, "alice", loaded.CreatedBy)
	require.Equal(t, 1, loaded.Version)

	require.Len(t, dispatcher.events, 1)
	require.Equal(t, boarddomain.EventBoardCreated, dispatcher.events[0].EventName())
}

func TestUnitOfWork_SoftDeleteAndRestore(t *testing.T) {
	factory, _ := newTestFactory(t)
	ctx := persistence.WithActor(context.Background(), "alice")

	u := factory.New()
	board, err := boarddomain.NewBoard("Doomed", "")
	require.NoError(t, err)
	require.NoError(t, u.Boards().Add(ctx, board))
	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)

	// Soft delete: the default read path stops seeing the board.
	u = factory.New()
	loaded, err := u.Boards().GetByID(ctx, board.ID)
	require.NoError(t, err)
	require.NoError(t, u.Boards().Remove(ctx, loaded))
	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)

	reader := factory.New().Boards()
	_, err = reader.GetByID(ctx, board.ID)
	require.ErrorIs(t, err, boardports.ErrNotFound)

	deleted, err := reader.GetByIDIncludingDeleted(ctx, board.ID)
	require.NoError(t, err)
	require.True(t, deleted.Deleted)
	require.Equal(t, "alice", deleted.DeletedBy)

	listed, err := reader.List(ctx)
	require.NoError(t, err)
	require.Empty(t, listed)

	// Restore through the bypass path.
	u = factory.New()
	deleted, err = u.Boards().GetByIDIncludingDeleted(ctx, board.ID)
	require.NoError(t, err)
	deleted.Restore()
	require.NoError(t, u.Boards().Update(ctx, deleted))
	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)

	restored, err := factory.New().Boards().GetByID(ctx, board.ID)
	require.NoError(t, err)
	require.False(t, restored.Deleted)
}

func TestUnitOfWork_ConcurrencyConflict(t *testing.T) {
	factory, _ := newTestFactory(t)
	ctx := context.Background()

	u := factory.New()
	board, err := boarddomain.NewBoard("Contended", "")
	require.NoError(t, err)
	require.NoError(t, u.Boards().Add(ctx, board))
	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)

	first := factory.New()
	firstCopy, err := first.Boards().GetByID(ctx, board.ID)
	require.NoError(t, err)
	second := factory.New()
	secondCopy, err := second.Boards().GetByID(ctx, board.ID)
	require.NoError(t, err)

	require.NoError(t, firstCopy.Rename("First Wins"))
	require.NoError(t, first.Boards().Update(ctx, firstCopy))
	_, err = first.SaveChanges(ctx)
	require.NoError(t, err)

	require.NoError(t, secondCopy.Rename("Second Loses"))
	require.NoError(t, second.Boards().Update(ctx, secondCopy))
	_, err = second.SaveChanges(ctx)
	require.ErrorIs(t, err, boardports.ErrConflict)
	require.ErrorIs(t, err, persistence.ErrConcurrencyConflict)
}

func TestUnitOfWork_TransactionLifecycle(t *testing.T) {
	factory, dispatcher := newTestFactory(t)
	ctx := context.Background()

	u := factory.New()
	require.NoError(t, u.BeginTransaction(ctx))
	committed, err := boarddomain.NewBoard("Committed", "")
	require.NoError(t, err)
	require.NoError(t, u.Boards().Add(ctx, committed))
	require.NoError(t, u.CommitTransaction(ctx))
	require.Len(t, dispatcher.events, 1)

	_, err = factory.New().Boards().GetByID(ctx, committed.ID)
	require.NoError(t, err)

	u = factory.New()
	require.NoError(t, u.BeginTransaction(ctx))
	discarded, err := boarddomain.NewBoard("Discarded", "")
	require.NoError(t, err)
	require.NoError(t, u.Boards().Add(ctx, discarded))
	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, u.RollbackTransaction(ctx))
	require.Len(t, dispatcher.events, 1)

	_, err = factory.New().Boards().GetByID(ctx, discarded.ID)
	require.ErrorIs(t, err, boardports.ErrNotFound)
}

func TestRollbackHelper_NoActiveTransaction(t *testing.T) {
	factory, _ := newTestFactory(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Deferred cleanup on the happy path must be a harmless no-op.
	Rollback(context.Background(), factory.New(), logger)
}
