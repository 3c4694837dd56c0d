package readmodel

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jmoiron/sqlx"

	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	dialectPostgres = "postgres"

	tableBooks        = "books"
	tableReservations = "reservations"
	tableBorrowings   = "borrowings"

	insertReservations = `INSERT INTO reservations
	(reservation_id, book_id, user_id, status, priority, notes, requested_at, confirmed_at, pickup_deadline, cancelled_reason, loan_id)
	VALUES (:reservation_id, :book_id, :user_id, :status, :priority, :notes, :requested_at, :confirmed_at, :pickup_deadline, :cancelled_reason, :loan_id)`

	insertBorrowings = `INSERT INTO borrowings
	(loan_id, reservation_id, book_id, user_id, status, borrowed_at, due_date, returned_at, renewed_count, days_overdue, fine_amount)
	VALUES (:loan_id, :reservation_id, :book_id, :user_id, :status, :borrowed_at, :due_date, :returned_at, :renewed_count, :days_overdue, :fine_amount)`
)

var (
	ErrNilDatabase          = errors.New("read model database must not be nil")
	ErrBuildingQueryFailed  = errors.New("building read model query failed")
	ErrWritingBookFailed    = errors.New("writing book to read model failed")
	ErrWritingEntriesFailed = errors.New("writing reservations or borrowings to read model failed")
)

// Writer projects book states into the read model tables.
type Writer struct {
	db *sqlx.DB
}

func NewWriter(db *sqlx.DB) (*Writer, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}

	return &Writer{db: db}, nil
}

// ProjectBook replaces the rows of one book as of projectedAt. A projection older than the stored
// one is a no-op, so concurrent projections of the same book settle on the newest state.
func (w *Writer) ProjectBook(
	ctx context.Context,
	state *core.BookState,
	sequenceNumber uint,
	projectedAt time.Time,
) (err error) {

	upsertSQL, upsertArgs, err := buildBookUpsert(bookFrom(state, sequenceNumber, projectedAt.UTC()))
	if err != nil {
		return err
	}

	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Join(ErrWritingBookFailed, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, upsertSQL, upsertArgs...)
	if err != nil {
		return errors.Join(ErrWritingBookFailed, err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return errors.Join(ErrWritingBookFailed, err)
	}

	if updated == 0 {
		return tx.Rollback()
	}

	if err = replaceEntries(ctx, tx, state); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Join(ErrWritingBookFailed, err)
	}

	return nil
}

func buildBookUpsert(book Book) (string, []any, error) {
	sqlQuery, args, err := goqu.Dialect(dialectPostgres).
		Insert(tableBooks).
		Rows(book).
		OnConflict(goqu.DoUpdate("book_id", goqu.Record{
			"title":            goqu.L("EXCLUDED.title"),
			"total_copies":     goqu.L("EXCLUDED.total_copies"),
			"available_copies": goqu.L("EXCLUDED.available_copies"),
			"status":           goqu.L("EXCLUDED.status"),
			"queue_length":     goqu.L("EXCLUDED.queue_length"),
			"sequence_number":  goqu.L("EXCLUDED.sequence_number"),
			"updated_at":       goqu.L("EXCLUDED.updated_at"),
		}).Where(goqu.L("books.sequence_number < EXCLUDED.sequence_number"))).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

func replaceEntries(ctx context.Context, tx *sqlx.Tx, state *core.BookState) error {
	builder := goqu.Dialect(dialectPostgres)

	for _, table := range []string{tableReservations, tableBorrowings} {
		deleteSQL, args, err := builder.Delete(table).Where(goqu.C("book_id").Eq(state.BookID)).Prepared(true).ToSQL()
		if err != nil {
			return errors.Join(ErrBuildingQueryFailed, err)
		}

		if _, err := tx.ExecContext(ctx, deleteSQL, args...); err != nil {
			return errors.Join(ErrWritingEntriesFailed, err)
		}
	}

	if reservations := reservationsFrom(state); len(reservations) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertReservations, reservations); err != nil {
			return errors.Join(ErrWritingEntriesFailed, err)
		}
	}

	if borrowings := borrowingsFrom(state); len(borrowings) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertBorrowings, borrowings); err != nil {
			return errors.Join(ErrWritingEntriesFailed, err)
		}
	}

	return nil
}
