package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/iho/ledgerform/internal/usecase"
)

type pgxPool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	pool pgxPool
	opts pgx.TxOptions
}

// NewTxManager creates a TxManager whose transactions run at isolation, one
// of "read committed", "repeatable read" or "serializable". Empty means the
// server default.
func NewTxManager(pool pgxPool, isolation string) (*TxManager, error) {
	level, err := ParseIsolation(isolation)
	if err != nil {
		return nil, err
	}

	return &TxManager{pool: pool, opts: pgx.TxOptions{IsoLevel: level}}, nil
}

// ParseIsolation maps a configured isolation name to its pgx level.
func ParseIsolation(name string) (pgx.TxIsoLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "read committed":
		return pgx.ReadCommitted, nil
	case "repeatable read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	default:
		return "", fmt.Errorf("unknown isolation level %q", name)
	}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction. Rolling back a finished transaction
// is a no-op so deferred rollbacks after Commit stay silent.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
