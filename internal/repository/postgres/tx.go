package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trovashop/storeapi/internal/repository"
)

// executor is the subset of *sql.DB / *sql.Tx the repositories use.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txKey struct{}

// exec returns the transaction bound to ctx, or the pool.
func exec(ctx context.Context, db *sql.DB) executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type txManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager backed by database transactions.
func NewTxManager(db *sql.DB) repository.TxManager {
	return &txManager{db: db}
}

// WithTransaction runs fn inside a single database transaction. Repository
// calls made with the callback's context join it; any error rolls the
// whole transaction back.
func (t *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}
