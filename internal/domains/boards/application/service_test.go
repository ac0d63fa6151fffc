package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	taskdomain "github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
	"github.com/taskhive/taskhive-api/internal/shared/uow/uowtest"
)

func TestCreateBoard_Success(t *testing.T) {
	factory := uowtest.NewFactory()
	svc := NewService(factory)

	board, err := svc.CreateBoard(context.Background(), CreateBoardInput{
		Name:        "Roadmap",
		Description: "planning",
	})
	require.NoError(t, err)
	require.Equal(t, "Roadmap", board.Name)
	require.Equal(t, 1, factory.Unit.Saves)
	require.Empty(t, board.DomainEvents())
}

func TestCreateBoard_EmptyName(t *testing.T) {
	svc := NewService(uowtest.NewFactory())

	_, err := svc.CreateBoard(context.Background(), CreateBoardInput{Name: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateBoard_PartialMutation(t *testing.T) {
	factory := uowtest.NewFactory()
	svc := NewService(factory)

	board, err := domain.NewBoard("Roadmap", "old description")
	require.NoError(t, err)
	factory.Unit.BoardRepo.Seed(board)

	name := "Roadmap 2027"
	updated, err := svc.UpdateBoard(context.Background(), UpdateBoardInput{
		ID:   board.ID,
		Name: &name,
	})
	require.NoError(t, err)
	require.Equal(t, "Roadmap 2027", updated.Name)
	require.Equal(t, "old description", updated.Description)
}

func TestUpdateBoard_NotFound(t *testing.T) {
	svc := NewService(uowtest.NewFactory())

	name := "anything"
	_, err := svc.UpdateBoard(context.Background(), UpdateBoardInput{ID: uuid.New(), Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveBoard_SoftDeletesTasksInOneTransaction(t *testing.T) {
	factory := uowtest.NewFactory()
	svc := NewService(factory)

	board, err := domain.NewBoard("Roadmap", "")
	require.NoError(t, err)
	factory.Unit.BoardRepo.Seed(board)
	task, err := taskdomain.NewTask(board.ID, "Ship v2", "")
	require.NoError(t, err)
	factory.Unit.TaskRepo.Seed(task)

	archived, err := svc.ArchiveBoard(context.Background(), board.ID)
	require.NoError(t, err)
	require.True(t, archived.Archived)
	require.Equal(t, 1, factory.Unit.Begun)
	require.Equal(t, 1, factory.Unit.Committed)
	require.Zero(t, factory.Unit.RolledBack)
	require.True(t, task.IsSoftDeleted())
}

func TestArchiveBoard_AlreadyArchivedRollsBack(t *testing.T) {
	factory := uowtest.NewFactory()
	svc := NewService(factory)

	board, err := domain.NewBoard("Roadmap", "")
	require.NoError(t, err)
	require.NoError(t, board.Archive())
	factory.Unit.BoardRepo.Seed(board)

	_, err = svc.ArchiveBoard(context.Background(), board.ID)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, 1, factory.Unit.RolledBack)
	require.Zero(t, factory.Unit.Committed)
}

func TestUnarchiveBoard(t *testing.T) {
	factory := uowtest.NewFactory()
	svc := NewService(factory)

	board, err := domain.NewBoard("Roadmap", "")
	require.NoError(t, err)
	require.NoError(t, board.Archive())
	factory.Unit.BoardRepo.Seed(board)

	restored, err := svc.UnarchiveBoard(context.Background(), board.ID)
	require.NoError(t, err)
	require.False(t, restored.Archived)

	_, err = svc.UnarchiveBoard(context.Background(), board.ID)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteAndRestoreBoard(t *testing.T) {
	factory := uowtest.NewFactory()
	svc := NewService(factory)
	ctx := context.Background()

	board, err := domain.NewBoard("Roadmap", "")
	require.NoError(t, err)
	factory.Unit.BoardRepo.Seed(board)

	require.NoError(t, svc.DeleteBoard(ctx, board.ID))
	_, err = svc.GetBoard(ctx, board.ID)
	require.ErrorIs(t, err, ErrNotFound)

	restored, err := svc.RestoreBoard(ctx, board.ID)
	require.NoError(t, err)
	require.False(t, restored.IsSoftDeleted())

	// Restoring a live board is a no-op, not an error.
	again, err := svc.RestoreBoard(ctx, board.ID)
	require.NoError(t, err)
	require.False(t, again.IsSoftDeleted())
}

func TestListBoards_ExcludesDeleted(t *testing.T) {
	factory := uowtest.NewFactory()
	svc := NewService(factory)
	ctx := context.Background()

	active, err := domain.NewBoard("Active", "")
	require.NoError(t, err)
	factory.Unit.BoardRepo.Seed(active)
	deleted, err := domain.NewBoard("Deleted", "")
	require.NoError(t, err)
	factory.Unit.BoardRepo.Seed(deleted)
	require.NoError(t, svc.DeleteBoard(ctx, deleted.ID))

	boards, err := svc.ListBoards(ctx)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	require.Equal(t, "Active", boards[0].Name)
}
