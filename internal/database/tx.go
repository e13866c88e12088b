package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TxState is the lifecycle state of a Transaction.
type TxState int

const (
	TxActive TxState = iota
	TxCommitted
	TxAborted
)

func (s TxState) String() string {
	switch s {
	case TxActive:
		return "active"
	case TxCommitted:
		return "committed"
	case TxAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ErrTxDone is returned by Commit and Rollback once the transaction has
// left the active state.
var ErrTxDone = errors.New("transaction has already been committed or rolled back")

// Beginner starts transactions. *pgxpool.Pool satisfies it: the pool
// reserves one connection for the transaction and releases it when the
// transaction is committed or rolled back.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Transaction wraps pgx.Tx with an explicit state machine. Exactly one
// terminal transition out of TxActive is allowed.
type Transaction struct {
	tx    pgx.Tx
	state TxState
}

// Begin opens a transaction on db.
func Begin(ctx context.Context, db Beginner, opts pgx.TxOptions) (*Transaction, error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Transaction{tx: tx, state: TxActive}, nil
}

// State reports the current lifecycle state.
func (t *Transaction) State() TxState {
	return t.state
}

func (t *Transaction) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.tx.Exec(ctx, sql, args...)
}

func (t *Transaction) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.tx.Query(ctx, sql, args...)
}

func (t *Transaction) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}

// Commit moves the transaction to TxCommitted. A failed commit leaves
// the transaction TxAborted; pgx has already discarded it.
func (t *Transaction) Commit(ctx context.Context) error {
	if t.state != TxActive {
		return ErrTxDone
	}
	if err := t.tx.Commit(ctx); err != nil {
		t.state = TxAborted
		return err
	}
	t.state = TxCommitted
	return nil
}

// Rollback moves the transaction to TxAborted.
func (t *Transaction) Rollback(ctx context.Context) error {
	if t.state != TxActive {
		return ErrTxDone
	}
	t.state = TxAborted
	return t.tx.Rollback(ctx)
}

// WithTx runs fn inside a transaction. fn returning an error, or
// panicking, rolls the transaction back; otherwise it is committed.
// Rollback runs on a context detached from ctx's cancellation so that a
// client disconnect still releases the connection cleanly.
func WithTx(ctx context.Context, db Beginner, opts pgx.TxOptions, fn func(*Transaction) error) (err error) {
	t, err := Begin(ctx, db, opts)
	if err != nil {
		return err
	}

	defer func() {
		if t.State() == TxActive {
			if rbErr := t.Rollback(context.WithoutCancel(ctx)); rbErr != nil && err == nil {
				err = rbErr
			}
		}
	}()

	if err = fn(t); err != nil {
		return err
	}

	return t.Commit(ctx)
}
