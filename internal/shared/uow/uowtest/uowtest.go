// Package uowtest provides an in-memory Unit of Work for application
// service tests. It applies mutations immediately and mimics the save
// pipeline's observable behavior: counting flushed entries, draining
// event buffers, and marking removals as soft deletes.
package uowtest

import (
	"context"
	"time"

	"github.com/google/uuid"

	boarddomain "github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	boardports "github.com/taskhive/taskhive-api/internal/domains/boards/ports"
	taskdomain "github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
	taskports "github.com/taskhive/taskhive-api/internal/domains/tasks/ports"
	shareddomain "github.com/taskhive/taskhive-api/internal/shared/domain"
	shareduow "github.com/taskhive/taskhive-api/internal/shared/uow"
)

// Factory hands out the same Unit on every New call so tests can seed
// state up front and assert on it afterwards.
type Factory struct {
	Unit *Unit
}

var _ shareduow.Factory = (*Factory)(nil)

// NewFactory builds a factory around one fresh in-memory unit.
func NewFactory() *Factory {
	return &Factory{Unit: NewUnit()}
}

func (f *Factory) New() shareduow.UnitOfWork { return f.Unit }

// Unit is the in-memory UnitOfWork double.
type Unit struct {
	BoardRepo *BoardRepo
	TaskRepo  *TaskRepo

	// SaveErr, when set, fails the next SaveChanges or CommitTransaction.
	SaveErr error

	Saves      int
	Begun      int
	Committed  int
	RolledBack int

	pending []eventSource
}

var _ shareduow.UnitOfWork = (*Unit)(nil)

type eventSource interface {
	DomainEvents() []shareddomain.Event
	ClearDomainEvents()
}

// NewUnit builds an empty unit with empty repositories.
func NewUnit() *Unit {
	u := &Unit{
		BoardRepo: &BoardRepo{boards: make(map[uuid.UUID]*boarddomain.Board)},
		TaskRepo:  &TaskRepo{tasks: make(map[uuid.UUID]*taskdomain.Task)},
	}
	u.BoardRepo.unit = u
	u.TaskRepo.unit = u
	return u
}

func (u *Unit) Boards() boardports.Repository { return u.BoardRepo }
func (u *Unit) Tasks() taskports.Repository   { return u.TaskRepo }

func (u *Unit) SaveChanges(context.Context) (int, error) {
	if u.SaveErr != nil {
		err := u.SaveErr
		u.SaveErr = nil
		return 0, err
	}
	count := len(u.pending)
	for _, src := range u.pending {
		src.ClearDomainEvents()
	}
	u.pending = nil
	u.Saves++
	return count, nil
}

func (u *Unit) BeginTransaction(context.Context) error {
	u.Begun++
	return nil
}

func (u *Unit) CommitTransaction(ctx context.Context) error {
	if _, err := u.SaveChanges(ctx); err != nil {
		return err
	}
	u.Committed++
	return nil
}

func (u *Unit) RollbackTransaction(context.Context) error {
	u.pending = nil
	u.RolledBack++
	return nil
}

func (u *Unit) track(src eventSource) {
	u.pending = append(u.pending, src)
}

// BoardRepo is the in-memory board repository double.
type BoardRepo struct {
	unit   *Unit
	boards map[uuid.UUID]*boarddomain.Board
}

// Seed stores a board directly, bypassing change tracking.
func (r *BoardRepo) Seed(board *boarddomain.Board) {
	r.boards[board.ID] = board
}

func (r *BoardRepo) Add(_ context.Context, board *boarddomain.Board) error {
	board.Version = 1
	board.StampCreated(time.Now().UTC(), "test")
	r.boards[board.ID] = board
	r.unit.track(board)
	return nil
}

func (r *BoardRepo) Update(_ context.Context, board *boarddomain.Board) error {
	r.boards[board.ID] = board
	r.unit.track(board)
	return nil
}

func (r *BoardRepo) Remove(_ context.Context, board *boarddomain.Board) error {
	board.MarkDeleted(time.Now().UTC(), "test")
	r.boards[board.ID] = board
	r.unit.track(board)
	return nil
}

func (r *BoardRepo) GetByID(_ context.Context, id uuid.UUID) (*boarddomain.Board, error) {
	board, ok := r.boards[id]
	if !ok || board.IsSoftDeleted() {
		return nil, boardports.ErrNotFound
	}
	return board, nil
}

func (r *BoardRepo) GetByIDIncludingDeleted(_ context.Context, id uuid.UUID) (*boarddomain.Board, error) {
	board, ok := r.boards[id]
	if !ok {
		return nil, boardports.ErrNotFound
	}
	return board, nil
}

func (r *BoardRepo) List(context.Context) ([]*boarddomain.Board, error) {
	var out []*boarddomain.Board
	for _, board := range r.boards {
		if !board.IsSoftDeleted() {
			out = append(out, board)
		}
	}
	return out, nil
}

// TaskRepo is the in-memory task repository double.
type TaskRepo struct {
	unit  *Unit
	tasks map[uuid.UUID]*taskdomain.Task
}

// Seed stores a task directly, bypassing change tracking.
func (r *TaskRepo) Seed(task *taskdomain.Task) {
	r.tasks[task.ID] = task
}

func (r *TaskRepo) Add(_ context.Context, task *taskdomain.Task) error {
	task.Version = 1
	task.StampCreated(time.Now().UTC(), "test")
	r.tasks[task.ID] = task
	r.unit.track(task)
	return nil
}

func (r *TaskRepo) Update(_ context.Context, task *taskdomain.Task) error {
	r.tasks[task.ID] = task
	r.unit.track(task)
	return nil
}

func (r *TaskRepo) Remove(_ context.Context, task *taskdomain.Task) error {
	task.MarkDeleted(time.Now().UTC(), "test")
	r.tasks[task.ID] = task
	r.unit.track(task)
	return nil
}

func (r *TaskRepo) GetByID(_ context.Context, id uuid.UUID) (*taskdomain.Task, error) {
	task, ok := r.tasks[id]
	if !ok || task.IsSoftDeleted() {
		return nil, taskports.ErrNotFound
	}
	return task, nil
}

func (r *TaskRepo) GetByIDIncludingDeleted(_ context.Context, id uuid.UUID) (*taskdomain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, taskports.ErrNotFound
	}
	return task, nil
}

func (r *TaskRepo) ListByBoard(_ context.Context, boardID uuid.UUID) ([]*taskdomain.Task, error) {
	var out []*taskdomain.Task
	for _, task := range r.tasks {
		if task.BoardID == boardID && !task.IsSoftDeleted() {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *TaskRepo) ListByStatus(_ context.Context, status taskdomain.Status) ([]*taskdomain.Task, error) {
	var out []*taskdomain.Task
	for _, task := range r.tasks {
		if task.Status == status && !task.IsSoftDeleted() {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *TaskRepo) PurgeDeletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	for id, task := range r.tasks {
		if task.IsSoftDeleted() && task.DeletedAt != nil && task.DeletedAt.Before(cutoff) {
			delete(r.tasks, id)
			purged++
		}
	}
	return purged, nil
}
