package bookavailability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/query/bookavailability"
)

var now = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func Test_ProjectBookAvailability(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, now),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now),
		core.BuildReservationReadyForPickup("r-1", "b-1", "u-1", now.Add(time.Hour), now),
		core.BuildReservationPlaced("r-2", "b-1", "u-2", "", now),
	}

	// act
	result, err := bookavailability.ProjectBookAvailability(history, bookavailability.BuildQuery("b-1"), 4)

	// assert
	require.NoError(t, err)
	assert.Equal(t, bookavailability.BookAvailability{
		BookID:          "b-1",
		Title:           "Momo",
		TotalCopies:     1,
		AvailableCopies: 0,
		Status:          core.BookReserved,
		QueueLength:     1,
		SequenceNumber:  4,
	}, result)
}

func Test_ProjectBookAvailability_UnknownBook(t *testing.T) {
	_, err := bookavailability.ProjectBookAvailability(nil, bookavailability.BuildQuery("b-404"), 0)

	assert.ErrorIs(t, err, core.ErrNotFound)
}
