package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// Transaction is the handle for an explicitly managed database
// transaction. At most one is active per Context; a second Begin returns
// the existing handle unchanged.
type Transaction struct {
	tx *gorm.DB
}

// BeginTransaction starts a transaction or returns the one already active
// (idempotent begin; nesting is never created).
func (c *Context) BeginTransaction(ctx context.Context) (*Transaction, error) {
	if c.current != nil {
		return c.current, nil
	}
	tx := c.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	c.tx = tx
	c.current = &Transaction{tx: tx}
	return c.current, nil
}

// CommitTransaction flushes pending changes through the save pipeline and
// commits. On any failure the transaction is rolled back before the
// original error is returned. The handle is released exactly once either
// way, so a subsequent Begin starts fresh.
func (c *Context) CommitTransaction(ctx context.Context) error {
	if c.current == nil {
		return ErrNoTransaction
	}
	tx := c.tx
	defer c.release()

	if _, err := c.SaveChanges(ctx); err != nil {
		c.rollback(tx)
		return err
	}
	if err := tx.Commit().Error; err != nil {
		c.rollback(tx)
		return fmt.Errorf("commit transaction: %w", err)
	}
	c.dispatch(ctx, drainEvents(c.txSources))
	return nil
}

// RollbackTransaction discards the active transaction, if any. The handle
// is released even when the underlying rollback fails.
func (c *Context) RollbackTransaction(ctx context.Context) error {
	if c.current == nil {
		return nil
	}
	tx := c.tx
	defer c.release()
	if err := tx.Rollback().Error; err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// rollback is the best-effort cleanup on a failed flush or commit. Its own
// failure is logged rather than returned so the original cause is never
// masked.
func (c *Context) rollback(tx *gorm.DB) {
	if err := tx.Rollback().Error; err != nil {
		c.logger.Error("transaction rollback failed", slog.String("error", err.Error()))
	}
}

func (c *Context) release() {
	c.tx = nil
	c.current = nil
	c.txSources = nil
}
