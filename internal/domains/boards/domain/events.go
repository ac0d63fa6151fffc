package domain

import (
	"github.com/google/uuid"

	shared "github.com/taskhive/taskhive-api/internal/shared/domain"
)

// Event name tags for the boards context.
const (
	EventBoardCreated  = "board.created"
	EventBoardRenamed  = "board.renamed"
	EventBoardArchived = "board.archived"
	EventBoardRestored = "board.restored"
)

// BoardCreated is raised once when a board aggregate is constructed.
type BoardCreated struct {
	shared.BaseEvent
	BoardID uuid.UUID `json:"boardId"`
	Name    string    `json:"name"`
}

func NewBoardCreated(boardID uuid.UUID, name string) BoardCreated {
	return BoardCreated{BaseEvent: shared.NewBaseEvent(EventBoardCreated), BoardID: boardID, Name: name}
}

// BoardRenamed captures a name change.
type BoardRenamed struct {
	shared.BaseEvent
	BoardID      uuid.UUID `json:"boardId"`
	PreviousName string    `json:"previousName"`
	Name         string    `json:"name"`
}

func NewBoardRenamed(boardID uuid.UUID, previous, name string) BoardRenamed {
	return BoardRenamed{BaseEvent: shared.NewBaseEvent(EventBoardRenamed), BoardID: boardID, PreviousName: previous, Name: name}
}

// BoardArchived is raised when a board leaves active use.
type BoardArchived struct {
	shared.BaseEvent
	BoardID uuid.UUID `json:"boardId"`
	Name    string    `json:"name"`
}

func NewBoardArchived(boardID uuid.UUID, name string) BoardArchived {
	return BoardArchived{BaseEvent: shared.NewBaseEvent(EventBoardArchived), BoardID: boardID, Name: name}
}

// BoardRestored is raised when an archived board returns to active use.
type BoardRestored struct {
	shared.BaseEvent
	BoardID uuid.UUID `json:"boardId"`
	Name    string    `json:"name"`
}

func NewBoardRestored(boardID uuid.UUID, name string) BoardRestored {
	return BoardRestored{BaseEvent: shared.NewBaseEvent(EventBoardRestored), BoardID: boardID, Name: name}
}
