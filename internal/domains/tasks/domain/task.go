package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	shared "github.com/taskhive/taskhive-api/internal/shared/domain"
)

// Status represents the lifecycle state of a task on its board.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Priority orders tasks within a column.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var (
	ErrEmptyTitle      = errors.New("task title is required")
	ErrMissingBoard    = errors.New("task must belong to a board")
	ErrInvalidStatus   = errors.New("unknown task status")
	ErrInvalidPriority = errors.New("unknown task priority")
	ErrPastDueDate     = errors.New("due date must not be in the past")
)

// Task is the aggregate managed by the tasks bounded context.
type Task struct {
	shared.AggregateRoot
	shared.AuditInfo
	shared.SoftDelete

	BoardID     uuid.UUID
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Assignee    string
	Labels      []string
	DueAt       *time.Time
}

// NewTask validates the invariants and builds a new Task aggregate in the
// todo column with medium priority.
func NewTask(boardID uuid.UUID, title, description string) (*Task, error) {
	if boardID == uuid.Nil {
		return nil, ErrMissingBoard
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	t := &Task{
		AggregateRoot: shared.NewAggregateRoot(),
		BoardID:       boardID,
		Title:         title,
		Description:   strings.TrimSpace(description),
		Status:        StatusTodo,
		Priority:      PriorityMedium,
	}
	t.Record(NewTaskCreated(t.ID, boardID, title))
	return t, nil
}

// Retitle mutates the task title ensuring the invariant.
func (t *Task) Retitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.Title = title
	return nil
}

// Describe replaces the free-form description.
func (t *Task) Describe(description string) {
	t.Description = strings.TrimSpace(description)
}

// MoveTo transitions the task to another column.
func (t *Task) MoveTo(status Status) error {
	switch status {
	case StatusTodo, StatusInProgress, StatusDone:
	default:
		return ErrInvalidStatus
	}
	if status == t.Status {
		return nil
	}
	previous := t.Status
	t.Status = status
	t.Record(NewTaskStatusChanged(t.ID, t.BoardID, previous, status))
	return nil
}

// Reprioritize validates and applies a new priority.
func (t *Task) Reprioritize(priority Priority) error {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}
	if priority == t.Priority {
		return nil
	}
	t.Priority = priority
	t.Record(NewTaskReprioritized(t.ID, t.BoardID, priority))
	return nil
}

// Assign hands the task to someone; an empty assignee unassigns it.
func (t *Task) Assign(assignee string) {
	assignee = strings.TrimSpace(assignee)
	if assignee == t.Assignee {
		return
	}
	t.Assignee = assignee
	t.Record(NewTaskAssigned(t.ID, t.BoardID, assignee))
}

// Relabel replaces the label set.
func (t *Task) Relabel(labels []string) {
	cleaned := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			cleaned = append(cleaned, l)
		}
	}
	t.Labels = cleaned
}

// Schedule sets or clears the due date. The reference time is passed in so
// validation does not read a clock of its own.
func (t *Task) Schedule(dueAt *time.Time, now time.Time) error {
	if dueAt != nil && dueAt.Before(now) {
		return ErrPastDueDate
	}
	t.DueAt = dueAt
	return nil
}

// FlagDeleted records the deletion fact. The soft-delete state rewrite
// itself happens in the persistence pipeline, not here.
func (t *Task) FlagDeleted() {
	t.Record(NewTaskDeleted(t.ID, t.BoardID))
}
