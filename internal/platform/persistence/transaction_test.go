package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBeginTransaction_Idempotent(t *testing.T) {
	pctx, _ := newTestContext(t)
	ctx := context.Background()

	first, err := pctx.BeginTransaction(ctx)
	require.NoError(t, err)
	second, err := pctx.BeginTransaction(ctx)
	require.NoError(t, err)
	require.Same(t, first, second)

	require.NoError(t, pctx.RollbackTransaction(ctx))
}

func TestCommitTransaction_WithoutBegin(t *testing.T) {
	pctx, _ := newTestContext(t)
	err := pctx.CommitTransaction(context.Background())
	require.ErrorIs(t, err, ErrNoTransaction)
}

func TestRollbackTransaction_WithoutBegin(t *testing.T) {
	pctx, _ := newTestContext(t)
	require.NoError(t, pctx.RollbackTransaction(context.Background()))
}

func TestCommitTransaction_DispatchesOnlyAfterCommit(t *testing.T) {
	pctx, dispatcher := newTestContext(t)
	ctx := context.Background()

	_, err := pctx.BeginTransaction(ctx)
	require.NoError(t, err)

	n := newNote("transactional")
	pctx.Register(StateAdded, n, noteOps(n))

	// An intermediate flush inside the transaction writes the row but
	// must not hand events out while the outcome is still undecided.
	count, err := pctx.SaveChanges(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Empty(t, dispatcher.batches)

	require.NoError(t, pctx.CommitTransaction(ctx))
	require.Len(t, dispatcher.batches, 1)
	require.Equal(t, "note.created", dispatcher.batches[0][0].EventName())
	require.Empty(t, n.DomainEvents())

	var record noteRecord
	require.NoError(t, pctx.DB().First(&record, "id = ?", n.ID).Error)
}

func TestRollbackTransaction_DiscardsWritesAndEvents(t *testing.T) {
	pctx, dispatcher := newTestContext(t)
	ctx := context.Background()

	_, err := pctx.BeginTransaction(ctx)
	require.NoError(t, err)

	n := newNote("rolled back")
	pctx.Register(StateAdded, n, noteOps(n))
	_, err = pctx.SaveChanges(ctx)
	require.NoError(t, err)

	require.NoError(t, pctx.RollbackTransaction(ctx))
	require.Empty(t, dispatcher.batches)

	var record noteRecord
	err = pctx.DB().First(&record, "id = ?", n.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommitTransaction_FlushFailureRollsBackAndReleases(t *testing.T) {
	pctx, dispatcher := newTestContext(t)
	ctx := context.Background()

	first, err := pctx.BeginTransaction(ctx)
	require.NoError(t, err)

	boom := errors.New("insert failed")
	n := newNote("doomed")
	pctx.Register(StateAdded, n, EntityOps{
		Create: func(*gorm.DB) error { return boom },
	})

	err = pctx.CommitTransaction(ctx)
	require.ErrorIs(t, err, boom)
	require.Empty(t, dispatcher.batches)

	// The handle was released, so the next begin starts a fresh one.
	next, err := pctx.BeginTransaction(ctx)
	require.NoError(t, err)
	require.NotSame(t, first, next)
	require.NoError(t, pctx.RollbackTransaction(ctx))
}
