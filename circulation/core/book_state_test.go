package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
)

var t0 = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func Test_ProjectBookState_ReturnPromotesHeadAndRepacks(t *testing.T) {
	// arrange
	policy := core.DefaultPolicy()
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, t0),
		core.BuildReservationPlaced("r-0", "b-1", "u-0", "", t0),
		core.BuildReservationReadyForPickup("r-0", "b-1", "u-0", t0.Add(policy.PickupWindow), t0),
		core.BuildReservationPickedUp("r-0", "b-1", "u-0", "l-0", t0.Add(time.Hour)),
		core.BuildLoanOpened("l-0", "r-0", "b-1", "u-0", t0.Add(time.Hour+policy.LoanPeriod), t0.Add(time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", t0.Add(2*time.Hour)),
		core.BuildReservationPlaced("r-2", "b-1", "u-2", "", t0.Add(3*time.Hour)),
	}
	state := core.ProjectBookState("b-1", history)
	require.Equal(t, core.Availability{Total: 1, Available: 0}, state.Ledger.Availability())
	p1, _ := state.Reservation("r-1")
	p2, _ := state.Reservation("r-2")
	require.Equal(t, 1, p1.Priority)
	require.Equal(t, 2, p2.Priority)

	// act
	now := t0.Add(24 * time.Hour)
	transition := core.NewTransition(state, policy, now)
	transition.Record(core.BuildLoanReturned("l-0", "b-1", "u-0", t0.Add(policy.LoanPeriod), 0, decimal.Zero, now))
	promoted := transition.PromoteWhileAvailable()

	// assert
	assert.Equal(t, 1, promoted)
	assert.Len(t, transition.Events(), 2)
	p1, _ = state.Reservation("r-1")
	p2, _ = state.Reservation("r-2")
	assert.Equal(t, core.ReservationStatusReadyForPickup, p1.Status)
	assert.Equal(t, 0, p1.Priority)
	assert.Equal(t, now.Add(policy.PickupWindow), *p1.PickupDeadline)
	assert.Equal(t, 1, p2.Priority)
	assert.Equal(t, core.Availability{Total: 1, Available: 0}, state.Ledger.Availability())
	assert.Equal(t, core.BookReserved, state.Status())
}

func Test_ProjectBookState_DoubleReturnAppliesOnce(t *testing.T) {
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 2, t0),
		core.BuildReservationPlaced("r-0", "b-1", "u-0", "", t0),
		core.BuildReservationReadyForPickup("r-0", "b-1", "u-0", t0.Add(time.Hour), t0),
		core.BuildReservationPickedUp("r-0", "b-1", "u-0", "l-0", t0),
		core.BuildLoanOpened("l-0", "r-0", "b-1", "u-0", t0.Add(time.Hour), t0),
		core.BuildLoanReturned("l-0", "b-1", "u-0", t0.Add(time.Hour), 0, decimal.Zero, t0),
		core.BuildLoanReturned("l-0", "b-1", "u-0", t0.Add(time.Hour), 0, decimal.Zero, t0),
	}

	state := core.ProjectBookState("b-1", history)

	assert.Equal(t, core.Availability{Total: 2, Available: 2}, state.Ledger.Availability())
}

func Test_BookState_Status(t *testing.T) {
	tests := []struct {
		name     string
		history  core.DomainEvents
		expected core.BookStatus
	}{
		{
			name:     "copies_on_the_shelf",
			history:  core.DomainEvents{core.BuildBookCopiesStocked("b-1", "Momo", 1, t0)},
			expected: core.BookAvailable,
		},
		{
			name: "all_copies_held",
			history: core.DomainEvents{
				core.BuildBookCopiesStocked("b-1", "Momo", 1, t0),
				core.BuildReservationPlaced("r-1", "b-1", "u-1", "", t0),
				core.BuildReservationReadyForPickup("r-1", "b-1", "u-1", t0.Add(time.Hour), t0),
			},
			expected: core.BookReserved,
		},
		{
			name: "all_copies_in_maintenance",
			history: core.DomainEvents{
				core.BuildBookCopiesStocked("b-1", "Momo", 2, t0),
				core.BuildBookCopiesWithdrawn("b-1", 2, core.WithdrawnForMaintenance, t0),
			},
			expected: core.BookMaintenance,
		},
		{
			name: "last_lent_copy_lost",
			history: core.DomainEvents{
				core.BuildBookCopiesStocked("b-1", "Momo", 1, t0),
				core.BuildReservationPlaced("r-1", "b-1", "u-1", "", t0),
				core.BuildReservationReadyForPickup("r-1", "b-1", "u-1", t0.Add(time.Hour), t0),
				core.BuildReservationPickedUp("r-1", "b-1", "u-1", "l-1", t0),
				core.BuildLoanOpened("l-1", "r-1", "b-1", "u-1", t0.Add(time.Hour), t0),
				core.BuildLoanDeclaredLost("l-1", "b-1", "u-1", t0),
			},
			expected: core.BookLost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := core.ProjectBookState("b-1", tt.history)

			assert.Equal(t, tt.expected, state.Status())
			assert.GreaterOrEqual(t, state.Ledger.Available, 0)
			assert.LessOrEqual(t, state.Ledger.Available, state.Ledger.Total)
		})
	}
}

func Test_BookState_CancelPendingKeepsAvailability(t *testing.T) {
	state := core.ProjectBookState("b-1", core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, t0),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", t0),
		core.BuildReservationPlaced("r-2", "b-1", "u-2", "", t0),
		core.BuildReservationPlaced("r-3", "b-1", "u-3", "", t0),
		core.BuildReservationCancelled("r-2", "b-1", "u-2", "changed my mind", false, t0),
	})

	waiting := state.WaitingReservations()

	require.Len(t, waiting, 2)
	assert.Equal(t, "r-1", waiting[0].ReservationID)
	assert.Equal(t, 1, waiting[0].Priority)
	assert.Equal(t, "r-3", waiting[1].ReservationID)
	assert.Equal(t, 2, waiting[1].Priority)
	assert.Equal(t, 1, state.Ledger.Available)
	assert.False(t, state.HasOpenReservation("u-2"))
	assert.True(t, state.OthersWaiting("u-1"))
}

func Test_ProjectBookStates_GroupsByBook(t *testing.T) {
	states := core.ProjectBookStates(core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, t0),
		core.BuildBookCopiesStocked("b-2", "Krabat", 3, t0),
		core.BuildReservingBookFailed("b-1", "r-9", "book not found", t0),
		core.BuildBookCopiesStocked("b-1", "", 1, t0),
	})

	require.Len(t, states, 2)
	assert.Equal(t, "b-1", states[0].BookID)
	assert.Equal(t, "Momo", states[0].Title)
	assert.Equal(t, 2, states[0].Ledger.Total)
	assert.Equal(t, 3, states[1].Ledger.Total)
}

func Test_BookState_NeedsSweep(t *testing.T) {
	state := core.ProjectBookState("b-1", core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 2, t0),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", t0),
		core.BuildReservationReadyForPickup("r-1", "b-1", "u-1", t0.Add(time.Hour), t0),
	})

	assert.False(t, state.NeedsSweep(t0.Add(time.Hour)))
	assert.True(t, state.NeedsSweep(t0.Add(time.Hour+time.Second)))
	assert.Len(t, state.LapsedHolds(t0.Add(2*time.Hour)), 1)
}

func Test_ProjectBookState_SkipsEventsOfOtherBooks(t *testing.T) {
	state := core.ProjectBookState("b-404", core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, t0),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", t0),
	})

	assert.False(t, state.Exists())
	assert.Empty(t, state.Reservations())
	assert.Equal(t, core.Availability{}, state.Ledger.Availability())
}

func Test_ProjectBookState_FlagsOvercommittedCopies(t *testing.T) {
	// arrange
	policy := core.DefaultPolicy()
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, t0),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", t0),
		core.BuildReservationPlaced("r-2", "b-1", "u-2", "", t0),
		core.BuildReservationPlaced("r-3", "b-1", "u-3", "", t0),
		core.BuildReservationReadyForPickup("r-1", "b-1", "u-1", t0.Add(time.Hour), t0),
		core.BuildReservationReadyForPickup("r-2", "b-1", "u-2", t0.Add(time.Hour), t0),
	}

	// act
	state := core.ProjectBookState("b-1", history)
	transition := core.NewTransition(state, policy, t0)
	transition.Record(core.BuildReservationCancelled("r-1", "b-1", "u-1", "", true, t0))
	promoted := transition.PromoteWhileAvailable()

	// assert
	assert.ErrorIs(t, state.Consistent(), core.ErrCopiesOvercommitted)
	assert.ErrorIs(t, state.Consistent(), core.ErrInvariantViolation)
	assert.Equal(t, 0, promoted)
	r3, _ := state.Reservation("r-3")
	assert.Equal(t, core.ReservationStatusPending, r3.Status)
}
