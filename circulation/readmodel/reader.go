package readmodel

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/schoollibrary/circulation/circulation/core"
)

var ErrReadingFailed = errors.New("reading read model failed")

// Reader serves listings from the read model. Its data lags the event store by the time a
// projection takes.
type Reader struct {
	db *sqlx.DB
}

func NewReader(db *sqlx.DB) (*Reader, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}

	return &Reader{db: db}, nil
}

func (r *Reader) Book(ctx context.Context, bookID string) (Book, error) {
	query := goqu.Dialect(dialectPostgres).From(tableBooks).Where(goqu.C("book_id").Eq(bookID))

	var book Book
	if err := r.get(ctx, &book, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, core.ErrBookNotFound
		}

		return Book{}, err
	}

	return book, nil
}

// Books lists the catalogue by title. An empty status lists every book.
func (r *Reader) Books(ctx context.Context, status string) ([]Book, error) {
	query := goqu.Dialect(dialectPostgres).From(tableBooks).Order(goqu.C("title").Asc(), goqu.C("book_id").Asc())
	if status != "" {
		query = query.Where(goqu.C("status").Eq(status))
	}

	books := make([]Book, 0)
	if err := r.selectInto(ctx, &books, query); err != nil {
		return nil, err
	}

	return books, nil
}

// BookReservations lists the reservations of one book, waiting ones in priority order first.
func (r *Reader) BookReservations(ctx context.Context, bookID string, status string) ([]Reservation, error) {
	query := goqu.Dialect(dialectPostgres).
		From(tableReservations).
		Where(goqu.C("book_id").Eq(bookID)).
		Order(goqu.L("CASE WHEN priority > 0 THEN 0 ELSE 1 END").Asc(), goqu.C("priority").Asc(), goqu.C("requested_at").Asc())
	if status != "" {
		query = query.Where(goqu.C("status").Eq(status))
	}

	reservations := make([]Reservation, 0)
	if err := r.selectInto(ctx, &reservations, query); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *Reader) UserBorrowings(ctx context.Context, userID string) ([]Borrowing, error) {
	query := goqu.Dialect(dialectPostgres).
		From(tableBorrowings).
		Where(goqu.C("user_id").Eq(userID)).
		Order(goqu.C("borrowed_at").Asc())

	borrowings := make([]Borrowing, 0)
	if err := r.selectInto(ctx, &borrowings, query); err != nil {
		return nil, err
	}

	return borrowings, nil
}

func (r *Reader) selectInto(ctx context.Context, dest any, query *goqu.SelectDataset) error {
	sqlQuery, args, err := query.Prepared(true).ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}

	if err := r.db.SelectContext(ctx, dest, sqlQuery, args...); err != nil {
		return errors.Join(ErrReadingFailed, err)
	}

	return nil
}

func (r *Reader) get(ctx context.Context, dest any, query *goqu.SelectDataset) error {
	sqlQuery, args, err := query.Prepared(true).ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}

	if err := r.db.GetContext(ctx, dest, sqlQuery, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}

		return errors.Join(ErrReadingFailed, err)
	}

	return nil
}
