package readmodel_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/readmodel"
	"github.com/schoollibrary/circulation/testutil/postgreswrapper"
)

var now = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func givenBookHistory() core.DomainEvents {
	due := now.Add(core.DefaultLoanPeriod)

	return core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, now),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now),
		core.BuildReservationConfirmed("r-1", "b-1", "u-1", now),
		core.BuildReservationReadyForPickup("r-1", "b-1", "u-1", now.Add(core.DefaultPickupWindow), now),
		core.BuildReservationPickedUp("r-1", "b-1", "u-1", "l-1", now),
		core.BuildLoanOpened("l-1", "r-1", "b-1", "u-1", due, now),
		core.BuildReservationPlaced("r-2", "b-1", "u-2", "for class", now.Add(time.Hour)),
		core.BuildLoanReturned("l-1", "b-1", "u-1", due, 2, decimal.RequireFromString("1.00"), due.Add(48*time.Hour)),
	}
}

func Test_Writer_ProjectsBook_And_Reader_ListsIt(t *testing.T) {
	// arrange
	ctx := context.Background()
	wrapper := postgreswrapper.New(t)
	writer, err := readmodel.NewWriter(wrapper.SQLX())
	require.NoError(t, err)
	reader, err := readmodel.NewReader(wrapper.SQLX())
	require.NoError(t, err)
	state := core.ProjectBookState("b-1", givenBookHistory())

	// act
	err = writer.ProjectBook(ctx, state, 8, now.Add(time.Minute))

	// assert
	require.NoError(t, err)

	book, err := reader.Book(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "Momo", book.Title)
	assert.Equal(t, 1, book.TotalCopies)
	assert.Equal(t, int64(8), book.SequenceNumber)
	assert.True(t, now.Add(time.Minute).Equal(book.UpdatedAt), "updated_at is the projection time")

	reservations, err := reader.BookReservations(ctx, "b-1", "")
	require.NoError(t, err)
	require.Len(t, reservations, 2)
	assert.Equal(t, "r-2", reservations[0].ReservationID, "waiting reservations come first")
	assert.Equal(t, 1, reservations[0].Priority)

	borrowings, err := reader.UserBorrowings(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, borrowings, 1)
	assert.Equal(t, string(core.LoanStatusReturned), borrowings[0].Status)
	assert.True(t, decimal.RequireFromString("1.00").Equal(borrowings[0].FineAmount))

	books, err := reader.Books(ctx, string(core.BookAvailable))
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func Test_Writer_IgnoresStaleProjection(t *testing.T) {
	// arrange
	ctx := context.Background()
	wrapper := postgreswrapper.New(t)
	writer, err := readmodel.NewWriter(wrapper.SQLX())
	require.NoError(t, err)
	reader, err := readmodel.NewReader(wrapper.SQLX())
	require.NoError(t, err)

	history := givenBookHistory()
	require.NoError(t, writer.ProjectBook(ctx, core.ProjectBookState("b-1", history), 8, now))

	// act
	err = writer.ProjectBook(ctx, core.ProjectBookState("b-1", history[:1]), 1, now.Add(time.Hour))

	// assert
	require.NoError(t, err)
	book, err := reader.Book(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, int64(8), book.SequenceNumber)
	assert.Equal(t, 2, wrapper.Count(t, "reservations"))
}

func Test_Reader_UnknownBook_IsNotFound(t *testing.T) {
	wrapper := postgreswrapper.New(t)
	reader, err := readmodel.NewReader(wrapper.SQLX())
	require.NoError(t, err)

	_, err = reader.Book(context.Background(), "b-unknown")

	assert.ErrorIs(t, err, core.ErrBookNotFound)
}

func Test_NewWriter_RejectsNilDatabase(t *testing.T) {
	_, err := readmodel.NewWriter(nil)

	assert.ErrorIs(t, err, readmodel.ErrNilDatabase)
}
