package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"dealflow/internal/domain"
	"dealflow/pkg/errcodes"
)

type contextKeyTx struct{}

// Store opens transactions and hands repositories the connection to use.
// A transaction started by WithinTx travels in the context, so every
// repository call made with that context joins it.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

// WithinTx runs fn in a transaction. Nested calls reuse the outer one.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(contextKeyTx{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, contextKeyTx{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// conn returns the transaction carried by ctx or the pool.
func (s *Store) conn(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(contextKeyTx{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}
