package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"notielf/internal/domain/repositories"
)

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	pool *pgxpool.Pool
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool) repositories.TransactionManager {
	return &TransactionManager{pool: pool}
}

// ExecTx executes a function within a transaction
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Defer rollback - safe even if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			slog.Warn("rollback failed", "error", err)
		}
	}()

	// Store transaction in context so query code can access it
	txCtx := repositories.SetTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
