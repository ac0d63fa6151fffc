package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive-api/internal/shared/domain"
)

func TestSaveChanges_EmptyChangeSet(t *testing.T) {
	pctx, dispatcher := newTestContext(t)

	count, err := pctx.SaveChanges(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
	require.Empty(t, dispatcher.batches)
}

func TestSaveChanges_SharedTimestampAndActor(t *testing.T) {
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	pctx, _ := newTestContext(t, WithClock(func() time.Time { return now }))

	first := newNote("first")
	second := newNote("second")
	pctx.Register(StateAdded, first, noteOps(first))
	pctx.Register(StateAdded, second, noteOps(second))

	ctx := WithActor(context.Background(), "alice")
	count, err := pctx.SaveChanges(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Zero(t, pctx.Pending())

	require.Equal(t, now, first.CreatedAt)
	require.Equal(t, now, second.CreatedAt)
	require.Equal(t, "alice", first.CreatedBy)
	require.Equal(t, "alice", second.CreatedBy)

	var records []noteRecord
	require.NoError(t, pctx.DB().Find(&records).Error)
	require.Len(t, records, 2)
	for _, r := range records {
		require.True(t, r.CreatedAt.Equal(now))
		require.Equal(t, "alice", r.CreatedBy)
	}
}

func TestSaveChanges_DefaultsToSystemActor(t *testing.T) {
	pctx, _ := newTestContext(t)

	n := newNote("unattributed")
	pctx.Register(StateAdded, n, noteOps(n))

	_, err := pctx.SaveChanges(context.Background())
	require.NoError(t, err)
	require.Equal(t, SystemActor, n.CreatedBy)
}

func TestSaveChanges_RewritesDeleteToSoftDelete(t *testing.T) {
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	pctx, _ := newTestContext(t, WithClock(func() time.Time { return now }))

	n := newNote("keep my row")
	pctx.Register(StateAdded, n, noteOps(n))
	_, err := pctx.SaveChanges(context.Background())
	require.NoError(t, err)

	pctx.Register(StateDeleted, n, noteOps(n))
	ctx := WithActor(context.Background(), "bob")
	count, err := pctx.SaveChanges(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.True(t, n.IsSoftDeleted())
	require.Equal(t, "bob", n.DeletedBy)
	require.Equal(t, now, *n.DeletedAt)
	require.Equal(t, now, n.UpdatedAt)

	// The default read path no longer sees the row.
	var filtered noteRecord
	err = pctx.DB().First(&filtered, "id = ?", n.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The bypass still does, and it was never physically removed.
	var raw noteRecord
	require.NoError(t, IncludeDeleted(pctx.DB()).First(&raw, "id = ?", n.ID).Error)
	require.True(t, raw.IsDeleted)
	require.Equal(t, "bob", raw.DeletedBy)
}

func TestSaveChanges_HardDeletesWithoutSoftDeleteSupport(t *testing.T) {
	pctx, _ := newTestContext(t)

	g := &tag{AggregateRoot: domain.NewAggregateRoot(), Label: "archive"}
	pctx.Register(StateAdded, g, tagOps(g))
	_, err := pctx.SaveChanges(context.Background())
	require.NoError(t, err)

	pctx.Register(StateDeleted, g, tagOps(g))
	_, err = pctx.SaveChanges(context.Background())
	require.NoError(t, err)

	var count int64
	require.NoError(t, pctx.DB().Model(&tagRecord{}).Where("id = ?", g.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestSaveChanges_DispatchesDrainedEventsOnce(t *testing.T) {
	pctx, dispatcher := newTestContext(t)

	n := newNote("eventful")
	pctx.Register(StateAdded, n, noteOps(n))

	_, err := pctx.SaveChanges(context.Background())
	require.NoError(t, err)

	require.Len(t, dispatcher.batches, 1)
	require.Len(t, dispatcher.batches[0], 1)
	require.Equal(t, "note.created", dispatcher.batches[0][0].EventName())
	require.Empty(t, n.DomainEvents())

	// A follow-up save with no pending entries redelivers nothing.
	count, err := pctx.SaveChanges(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
	require.Len(t, dispatcher.batches, 1)
}

func TestSaveChanges_FailedWriteKeepsChangeSetAndEvents(t *testing.T) {
	pctx, dispatcher := newTestContext(t)

	n := newNote("doomed")
	boom := errors.New("insert failed")
	pctx.Register(StateAdded, n, EntityOps{
		Create: func(*gorm.DB) error { return boom },
	})

	_, err := pctx.SaveChanges(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, pctx.Pending())
	require.Empty(t, dispatcher.batches)
	require.Len(t, n.DomainEvents(), 1)
}

func TestSaveChanges_DispatcherFailureDoesNotFailSave(t *testing.T) {
	pctx, dispatcher := newTestContext(t)
	dispatcher.err = errors.New("relay unavailable")

	n := newNote("still saved")
	pctx.Register(StateAdded, n, noteOps(n))

	count, err := pctx.SaveChanges(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)

	var record noteRecord
	require.NoError(t, pctx.DB().First(&record, "id = ?", n.ID).Error)
}

func TestSaveChanges_CanceledContext(t *testing.T) {
	pctx, _ := newTestContext(t)

	n := newNote("never written")
	pctx.Register(StateAdded, n, noteOps(n))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pctx.SaveChanges(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestActorFromContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	require.False(t, ok)

	actor, ok := ActorFromContext(WithActor(context.Background(), "carol"))
	require.True(t, ok)
	require.Equal(t, "carol", actor)

	provider := ContextActorProvider{}
	require.Equal(t, SystemActor, provider.Actor(context.Background()))
	require.Equal(t, "carol", provider.Actor(WithActor(context.Background(), "carol")))
}
