package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"cryptopulse/internal/metrics"
	"cryptopulse/pkg/errors"
)

// Schema is the DDL applied on startup
//
//go:embed schema.sql
var Schema string

// batchSize keeps multi-row inserts well under the 65535 bind parameter limit
const batchSize = 500

// psql builds statements with $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DBTX is a common interface for *sqlx.DB and *sqlx.Tx
// This allows repositories to work with both regular connections and transactions
// enabling full transactional isolation in tests
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row

	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// txBeginner is implemented by *sqlx.DB but not by *sqlx.Tx
type txBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// withTx runs fn in a new transaction, or inside the caller's one when db is already a Tx
func withTx(ctx context.Context, db DBTX, fn func(DBTX) error) error {
	beginner, ok := db.(txBeginner)
	if !ok {
		return fn(db)
	}

	tx, err := beginner.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

// exec runs a built statement and returns affected rows
func exec(ctx context.Context, db DBTX, op string, b sq.Sqlizer) (int64, error) {
	start := time.Now()
	query, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrapf(err, "build %s", op)
	}

	res, err := db.ExecContext(ctx, query, args...)
	metrics.RecordDBQuery("postgres", op, time.Since(start), err)
	if err != nil {
		return 0, errors.Wrap(err, op)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// selectInto runs a built query and scans all rows into dest
func selectInto(ctx context.Context, db DBTX, op string, dest interface{}, b sq.Sqlizer) error {
	start := time.Now()
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrapf(err, "build %s", op)
	}

	err = db.SelectContext(ctx, dest, query, args...)
	metrics.RecordDBQuery("postgres", op, time.Since(start), err)
	return errors.Wrap(err, op)
}

// getInto scans exactly one row; no row maps to errors.ErrNotFound
func getInto(ctx context.Context, db DBTX, op string, dest interface{}, b sq.Sqlizer) error {
	start := time.Now()
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrapf(err, "build %s", op)
	}

	err = db.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("postgres", op, time.Since(start), nil)
		return errors.ErrNotFound
	}
	metrics.RecordDBQuery("postgres", op, time.Since(start), err)
	return errors.Wrap(err, op)
}

// lastByKey drops earlier rows sharing a conflict key. A single
// INSERT ... ON CONFLICT DO UPDATE cannot touch the same row twice.
func lastByKey[T any, K comparable](rows []T, key func(T) K) []T {
	index := make(map[K]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if i, ok := index[k]; ok {
			out[i] = row
			continue
		}
		index[k] = len(out)
		out = append(out, row)
	}
	return out
}
