package adapters

import (
	"context"
	"database/sql"
)

// advisoryLockSQL takes a transaction scoped lock that is released on commit or rollback.
const advisoryLockSQL = "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))"

// DBAdapter is the narrow surface the event store needs from a database handle.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)

	// ExecWithLocks runs query in a transaction on the primary after taking an advisory lock per
	// key, in the given order. The statement therefore sees every row committed by earlier holders.
	ExecWithLocks(ctx context.Context, lockKeys []string, query string) (DBResult, error)
}

// DBRows is an iterator over query results.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult reports the outcome of an Exec.
type DBResult interface {
	RowsAffected() (int64, error)
}

// stdRows wraps *sql.Rows, used by both the database/sql and the sqlx adapter.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

func execWithLocks(ctx context.Context, db *sql.DB, lockKeys []string, query string) (result DBResult, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, key := range lockKeys {
		if _, err = tx.ExecContext(ctx, advisoryLockSQL, key); err != nil {
			return nil, err
		}
	}

	sqlResult, err := tx.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &stdResult{result: sqlResult}, nil
}
