package services

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Inventory rows are the only resource with real write contention, so the
// paths that touch them (job card update, purchase order receipt) run
// through Transact instead of the per-request Tx middleware and retry a
// bounded number of times on serialization failures.
const (
	txAttempts  = 3
	txRetryBase = 50 * time.Millisecond
)

// retryableTxError reports whether err is a Postgres serialization failure
// (40001) or deadlock (40P01). Anything else, including SQLite's coarse
// locking errors in tests, is surfaced to the caller unchanged.
func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// Transact runs fn inside a transaction, retrying on deadlock/serialization
// failures with linear backoff. The transaction boundary covers everything
// fn does: a retry always starts from a clean slate.
func Transact(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(txRetryBase * time.Duration(attempt))
		}
		err = db.Transaction(fn)
		if err == nil || !retryableTxError(err) {
			return err
		}
	}
	return err
}
