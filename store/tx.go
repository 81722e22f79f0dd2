package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// withTx runs fn in a transaction. The transaction is rolled back when fn
// fails or panics and committed otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		p := recover()
		if p == nil && err == nil {
			return
		}
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.WithError(rollbackErr).Error("Failed to roll back user word transaction")
		}
		if p != nil {
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}
