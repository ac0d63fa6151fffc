// Package uow wires the concrete Unit of Work: one persistence context per
// logical request, with lazily built repositories sharing it.
package uow

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	boardpostgres "github.com/taskhive/taskhive-api/internal/domains/boards/adapters/persistence/postgres"
	boardports "github.com/taskhive/taskhive-api/internal/domains/boards/ports"
	taskpostgres "github.com/taskhive/taskhive-api/internal/domains/tasks/adapters/persistence/postgres"
	taskports "github.com/taskhive/taskhive-api/internal/domains/tasks/ports"
	"github.com/taskhive/taskhive-api/internal/platform/persistence"
	shareduow "github.com/taskhive/taskhive-api/internal/shared/uow"
)

var _ shareduow.Factory = (*Factory)(nil)

// Factory builds one UnitOfWork per logical request scope. The factory is
// safe to share; the units it produces are not.
type Factory struct {
	db   *gorm.DB
	opts []persistence.Option
}

// NewFactory captures the connection and the persistence options every
// unit is built with (dispatcher, actor provider, clock, logger).
func NewFactory(db *gorm.DB, opts ...persistence.Option) *Factory {
	return &Factory{db: db, opts: opts}
}

// New creates a fresh change-tracking session and its Unit of Work.
func (f *Factory) New() shareduow.UnitOfWork {
	return &unitOfWork{pctx: persistence.NewContext(f.db, f.opts...)}
}

type unitOfWork struct {
	pctx   *persistence.Context
	boards boardports.Repository
	tasks  taskports.Repository
}

// Boards lazily constructs the board repository once per unit.
func (u *unitOfWork) Boards() boardports.Repository {
	if u.boards == nil {
		u.boards = boardpostgres.NewRepository(u.pctx)
	}
	return u.boards
}

// Tasks lazily constructs the task repository once per unit.
func (u *unitOfWork) Tasks() taskports.Repository {
	if u.tasks == nil {
		u.tasks = taskpostgres.NewRepository(u.pctx)
	}
	return u.tasks
}

func (u *unitOfWork) SaveChanges(ctx context.Context) (int, error) {
	return u.pctx.SaveChanges(ctx)
}

func (u *unitOfWork) BeginTransaction(ctx context.Context) error {
	_, err := u.pctx.BeginTransaction(ctx)
	return err
}

func (u *unitOfWork) CommitTransaction(ctx context.Context) error {
	return u.pctx.CommitTransaction(ctx)
}

func (u *unitOfWork) RollbackTransaction(ctx context.Context) error {
	return u.pctx.RollbackTransaction(ctx)
}

// Rollback is a deferred-cleanup helper: it discards the unit's active
// transaction, logging instead of returning the error.
func Rollback(ctx context.Context, u shareduow.UnitOfWork, logger *slog.Logger) {
	if err := u.RollbackTransaction(ctx); err != nil && logger != nil {
		logger.Error("unit of work rollback failed", slog.String("error", err.Error()))
	}
}
