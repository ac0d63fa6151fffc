package domain

import (
	"github.com/google/uuid"

	shared "github.com/taskhive/taskhive-api/internal/shared/domain"
)

// Event name tags for the tasks context.
const (
	EventTaskCreated       = "task.created"
	EventTaskStatusChanged = "task.status_changed"
	EventTaskAssigned      = "task.assigned"
	EventTaskReprioritized = "task.reprioritized"
	EventTaskDeleted       = "task.deleted"
)

// TaskCreated is raised once when a task aggregate is constructed.
type TaskCreated struct {
	shared.BaseEvent
	TaskID  uuid.UUID `json:"taskId"`
	BoardID uuid.UUID `json:"boardId"`
	Title   string    `json:"title"`
}

func NewTaskCreated(taskID, boardID uuid.UUID, title string) TaskCreated {
	return TaskCreated{BaseEvent: shared.NewBaseEvent(EventTaskCreated), TaskID: taskID, BoardID: boardID, Title: title}
}

// TaskStatusChanged captures a column transition.
type TaskStatusChanged struct {
	shared.BaseEvent
	TaskID   uuid.UUID `json:"taskId"`
	BoardID  uuid.UUID `json:"boardId"`
	Previous Status    `json:"previous"`
	Status   Status    `json:"status"`
}

func NewTaskStatusChanged(taskID, boardID uuid.UUID, previous, status Status) TaskStatusChanged {
	return TaskStatusChanged{BaseEvent: shared.NewBaseEvent(EventTaskStatusChanged), TaskID: taskID, BoardID: boardID, Previous: previous, Status: status}
}

// TaskAssigned captures an assignee change; Assignee is empty when the
// task was unassigned.
type TaskAssigned struct {
	shared.BaseEvent
	TaskID   uuid.UUID `json:"taskId"`
	BoardID  uuid.UUID `json:"boardId"`
	Assignee string    `json:"assignee"`
}

func NewTaskAssigned(taskID, boardID uuid.UUID, assignee string) TaskAssigned {
	return TaskAssigned{BaseEvent: shared.NewBaseEvent(EventTaskAssigned), TaskID: taskID, BoardID: boardID, Assignee: assignee}
}

// TaskReprioritized captures a priority change.
type TaskReprioritized struct {
	shared.BaseEvent
	TaskID   uuid.UUID `json:"taskId"`
	BoardID  uuid.UUID `json:"boardId"`
	Priority Priority  `json:"priority"`
}

func NewTaskReprioritized(taskID, boardID uuid.UUID, priority Priority) TaskReprioritized {
	return TaskReprioritized{BaseEvent: shared.NewBaseEvent(EventTaskReprioritized), TaskID: taskID, BoardID: boardID, Priority: priority}
}

// TaskDeleted is raised when a task is soft-deleted.
type TaskDeleted struct {
	shared.BaseEvent
	TaskID  uuid.UUID `json:"taskId"`
	BoardID uuid.UUID `json:"boardId"`
}

func NewTaskDeleted(taskID, boardID uuid.UUID) TaskDeleted {
	return TaskDeleted{BaseEvent: shared.NewBaseEvent(EventTaskDeleted), TaskID: taskID, BoardID: boardID}
}
