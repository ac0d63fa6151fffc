// Package uow defines the Unit of Work seam command handlers consume:
// one object giving access to every repository and the transaction
// boundary of a single logical request.
package uow

import (
	"context"

	boardports "github.com/taskhive/taskhive-api/internal/domains/boards/ports"
	taskports "github.com/taskhive/taskhive-api/internal/domains/tasks/ports"
)

// UnitOfWork groups the repositories bound to one change-tracking session
// with its transaction lifecycle. One instance serves one logical use
// case; instances are not safe for concurrent use and must never be
// shared across requests.
type UnitOfWork interface {
	Boards() boardports.Repository
	Tasks() taskports.Repository

	// SaveChanges flushes tracked changes through the audit/soft-delete
	// pipeline and dispatches buffered domain events after the commit.
	SaveChanges(ctx context.Context) (int, error)

	// BeginTransaction is idempotent: a second call while a transaction
	// is active joins it rather than nesting.
	BeginTransaction(ctx context.Context) error
	// CommitTransaction saves pending changes, then commits. On failure
	// it rolls back before returning and always releases the handle.
	CommitTransaction(ctx context.Context) error
	// RollbackTransaction discards the active transaction, if any.
	RollbackTransaction(ctx context.Context) error
}

// Factory builds one UnitOfWork per logical request scope.
type Factory interface {
	New() UnitOfWork
}
