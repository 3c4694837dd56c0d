package pickupreservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/command/pickupreservation"
)

var now = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func givenReadyReservation(deadline time.Time) core.DomainEvents {
	return core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, now.Add(-48*time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-48*time.Hour)),
		core.BuildReservationReadyForPickup("r-1", "b-1", "u-1", deadline, now.Add(-24*time.Hour)),
	}
}

func Test_Decide_Success_OpensLoan(t *testing.T) {
	// arrange
	policy := core.DefaultPolicy()
	history := givenReadyReservation(now.Add(time.Hour))

	// act
	result := pickupreservation.Decide(history, pickupreservation.BuildCommand("r-1", "b-1", "l-1", now), policy)

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 2)
	assert.Equal(t, "l-1", result.Events[0].(core.ReservationPickedUp).LoanID)
	opened := result.Events[1].(core.LoanOpened)
	assert.Equal(t, now.Add(14*24*time.Hour), opened.DueDate)
	assert.Equal(t, "u-1", opened.UserID)

	state := core.ProjectBookState("b-1", append(history, result.Events...))
	loan, ok := state.Loans.Get("l-1")
	require.True(t, ok)
	assert.Equal(t, core.LoanStatusActive, loan.Status)
	assert.Equal(t, 0, loan.RenewedCount)
	assert.Equal(t, 0, state.Ledger.Available)
}

func Test_Decide_Idempotent_WhenAlreadyPickedUp(t *testing.T) {
	history := append(givenReadyReservation(now.Add(time.Hour)),
		core.BuildReservationPickedUp("r-1", "b-1", "u-1", "l-1", now.Add(-time.Minute)),
	)

	result := pickupreservation.Decide(history, pickupreservation.BuildCommand("r-1", "b-1", "l-2", now), core.DefaultPolicy())

	assert.True(t, result.IsIdempotent())
}

func Test_Decide_Error_WhenDeadlinePassed(t *testing.T) {
	history := givenReadyReservation(now.Add(-time.Second))

	result := pickupreservation.Decide(history, pickupreservation.BuildCommand("r-1", "b-1", "l-1", now), core.DefaultPolicy())

	assert.ErrorIs(t, result.HasError(), core.ErrPickupDeadlinePassed)
	assert.Equal(t, core.PickingUpReservationFailedEventType, result.Events[0].IsEventType())
}

func Test_Decide_Error_WhenNotReady(t *testing.T) {
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 0, now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-time.Minute)),
	}

	result := pickupreservation.Decide(history, pickupreservation.BuildCommand("r-1", "b-1", "l-1", now), core.DefaultPolicy())

	assert.ErrorIs(t, result.HasError(), core.ErrInvalidReservationState)
}
