package domain

import (
	"errors"
	"strings"

	shared "github.com/taskhive/taskhive-api/internal/shared/domain"
)

var (
	ErrEmptyName       = errors.New("board name is required")
	ErrAlreadyArchived = errors.New("board is already archived")
	ErrNotArchived     = errors.New("board is not archived")
)

// Board groups tasks into one working surface. It is the aggregate managed
// by the boards bounded context: audited, soft-deletable, and versioned.
type Board struct {
	shared.AggregateRoot
	shared.AuditInfo
	shared.SoftDelete

	Name        string
	Description string
	Archived    bool
}

// NewBoard validates the invariants and builds a new Board aggregate.
func NewBoard(name, description string) (*Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	b := &Board{
		AggregateRoot: shared.NewAggregateRoot(),
		Name:          name,
		Description:   strings.TrimSpace(description),
	}
	b.Record(NewBoardCreated(b.ID, b.Name))
	return b, nil
}

// Rename mutates the board name ensuring the invariant.
func (b *Board) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if name == b.Name {
		return nil
	}
	previous := b.Name
	b.Name = name
	b.Record(NewBoardRenamed(b.ID, previous, name))
	return nil
}

// Describe replaces the free-form description.
func (b *Board) Describe(description string) {
	b.Description = strings.TrimSpace(description)
}

// Archive takes the board out of active use. Archived boards keep their
// history; the application layer soft-deletes the board's tasks in the
// same transaction.
func (b *Board) Archive() error {
	if b.Archived {
		return ErrAlreadyArchived
	}
	b.Archived = true
	b.Record(NewBoardArchived(b.ID, b.Name))
	return nil
}

// Unarchive returns an archived board to active use.
func (b *Board) Unarchive() error {
	if !b.Archived {
		return ErrNotArchived
	}
	b.Archived = false
	b.Record(NewBoardRestored(b.ID, b.Name))
	return nil
}
