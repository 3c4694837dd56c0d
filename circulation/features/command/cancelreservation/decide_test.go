package cancelreservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/command/cancelreservation"
)

var now = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func Test_Decide_CancelPending_KeepsAvailabilityAndRepacks(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-0", "b-1", "u-0", "", now.Add(-time.Hour)),
		core.BuildReservationReadyForPickup("r-0", "b-1", "u-0", now.Add(time.Hour), now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-3*time.Minute)),
		core.BuildReservationPlaced("r-2", "b-1", "u-2", "", now.Add(-2*time.Minute)),
		core.BuildReservationPlaced("r-3", "b-1", "u-3", "", now.Add(-time.Minute)),
	}

	// act
	result := cancelreservation.Decide(history, cancelreservation.BuildCommand("r-2", "b-1", "no longer needed", now), core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	cancelled, ok := result.Events[0].(core.ReservationCancelled)
	require.True(t, ok)
	assert.False(t, cancelled.CopyReleased)
	assert.Equal(t, "no longer needed", cancelled.Reason)

	state := core.ProjectBookState("b-1", append(history, result.Events...))
	assert.Equal(t, 0, state.Ledger.Available)
	r3, _ := state.Reservation("r-3")
	assert.Equal(t, 2, r3.Priority)
}

func Test_Decide_CancelReady_ReleasesCopyAndPromotesNext(t *testing.T) {
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-0", "b-1", "u-0", "", now.Add(-time.Hour)),
		core.BuildReservationReadyForPickup("r-0", "b-1", "u-0", now.Add(time.Hour), now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-time.Minute)),
	}

	result := cancelreservation.Decide(history, cancelreservation.BuildCommand("r-0", "b-1", "", now), core.DefaultPolicy())

	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 2)
	assert.True(t, result.Events[0].(core.ReservationCancelled).CopyReleased)
	assert.Equal(t, "r-1", result.Events[1].(core.ReservationReadyForPickup).ReservationID)
}

func Test_Decide_Idempotent_WhenAlreadyCancelled(t *testing.T) {
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-time.Minute)),
		core.BuildReservationCancelled("r-1", "b-1", "u-1", "", false, now.Add(-time.Second)),
	}

	result := cancelreservation.Decide(history, cancelreservation.BuildCommand("r-1", "b-1", "", now), core.DefaultPolicy())

	assert.True(t, result.IsIdempotent())
}

func Test_Decide_Error_WhenPickedUp(t *testing.T) {
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-time.Hour)),
		core.BuildReservationReadyForPickup("r-1", "b-1", "u-1", now.Add(time.Hour), now.Add(-time.Hour)),
		core.BuildReservationPickedUp("r-1", "b-1", "u-1", "l-1", now.Add(-time.Minute)),
	}

	result := cancelreservation.Decide(history, cancelreservation.BuildCommand("r-1", "b-1", "", now), core.DefaultPolicy())

	assert.ErrorIs(t, result.HasError(), core.ErrInvariantViolation)
	assert.Equal(t, core.CancelingReservationFailedEventType, result.Events[0].IsEventType())
}

func Test_Decide_Error_WhenUnknown(t *testing.T) {
	result := cancelreservation.Decide(core.DomainEvents{}, cancelreservation.BuildCommand("r-1", "b-1", "", now), core.DefaultPolicy())

	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
}
