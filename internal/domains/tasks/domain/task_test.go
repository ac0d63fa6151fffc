package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewTask_Defaults(t *testing.T) {
	boardID := uuid.New()
	task, err := NewTask(boardID, "  Ship v2  ", " release work ")
	require.NoError(t, err)
	require.Equal(t, boardID, task.BoardID)
	require.Equal(t, "Ship v2", task.Title)
	require.Equal(t, StatusTodo, task.Status)
	require.Equal(t, PriorityMedium, task.Priority)

	events := task.DomainEvents()
	require.Len(t, events, 1)
	require.Equal(t, EventTaskCreated, events[0].EventName())
}

func TestNewTask_Invalid(t *testing.T) {
	_, err := NewTask(uuid.Nil, "Ship v2", "")
	require.ErrorIs(t, err, ErrMissingBoard)

	_, err = NewTask(uuid.New(), "   ", "")
	require.ErrorIs(t, err, ErrEmptyTitle)
}

func TestTask_MoveTo(t *testing.T) {
	task, err := NewTask(uuid.New(), "Ship v2", "")
	require.NoError(t, err)
	task.ClearDomainEvents()

	require.ErrorIs(t, task.MoveTo("blocked"), ErrInvalidStatus)

	// Moving to the current column raises nothing.
	require.NoError(t, task.MoveTo(StatusTodo))
	require.Empty(t, task.DomainEvents())

	require.NoError(t, task.MoveTo(StatusInProgress))
	events := task.DomainEvents()
	require.Len(t, events, 1)
	moved, ok := events[0].(TaskStatusChanged)
	require.True(t, ok)
	require.Equal(t, StatusTodo, moved.Previous)
	require.Equal(t, StatusInProgress, moved.Status)
}

func TestTask_Reprioritize(t *testing.T) {
	task, err := NewTask(uuid.New(), "Ship v2", "")
	require.NoError(t, err)
	task.ClearDomainEvents()

	require.ErrorIs(t, task.Reprioritize("urgent"), ErrInvalidPriority)
	require.NoError(t, task.Reprioritize(PriorityMedium))
	require.Empty(t, task.DomainEvents())

	require.NoError(t, task.Reprioritize(PriorityHigh))
	require.Equal(t, PriorityHigh, task.Priority)
	require.Len(t, task.DomainEvents(), 1)
}

func TestTask_Assign(t *testing.T) {
	task, err := NewTask(uuid.New(), "Ship v2", "")
	require.NoError(t, err)
	task.ClearDomainEvents()

	task.Assign("  alice ")
	require.Equal(t, "alice", task.Assignee)

	// Re-assigning the same person raises nothing.
	task.Assign("alice")
	require.Len(t, task.DomainEvents(), 1)

	task.Assign("")
	require.Empty(t, task.Assignee)
	require.Len(t, task.DomainEvents(), 2)
}

func TestTask_Relabel(t *testing.T) {
	task, err := NewTask(uuid.New(), "Ship v2", "")
	require.NoError(t, err)

	task.Relabel([]string{" backend ", "", "api", "  "})
	require.Equal(t, []string{"backend", "api"}, task.Labels)
}

func TestTask_Schedule(t *testing.T) {
	task, err := NewTask(uuid.New(), "Ship v2", "")
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	require.ErrorIs(t, task.Schedule(&past, now), ErrPastDueDate)

	future := now.Add(48 * time.Hour)
	require.NoError(t, task.Schedule(&future, now))
	require.Equal(t, future, *task.DueAt)

	require.NoError(t, task.Schedule(nil, now))
	require.Nil(t, task.DueAt)
}

func TestTask_FlagDeleted(t *testing.T) {
	task, err := NewTask(uuid.New(), "Ship v2", "")
	require.NoError(t, err)
	task.ClearDomainEvents()

	task.FlagDeleted()
	events := task.DomainEvents()
	require.Len(t, events, 1)
	require.Equal(t, EventTaskDeleted, events[0].EventName())
}
