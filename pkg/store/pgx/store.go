// Package pgx implements the record and job stores on PostgreSQL.
// Records are staged as JSON rows keyed by correlation ID and document
// ID; the worker writes them per document inside one transaction and
// the exporter reads them back in insertion order.
package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// RecordDBStore implements store.RecordStore and store.JobStore against
// a pgx connection or pool.
type RecordDBStore struct {
	conn pgxIConn
}

// NewRecordDBStoreWithConnection creates a store using an existing
// database connection or pool.
func NewRecordDBStoreWithConnection(conn pgxIConn) *RecordDBStore {
	return &RecordDBStore{conn: conn}
}
