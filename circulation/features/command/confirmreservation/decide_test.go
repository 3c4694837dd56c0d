package confirmreservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/command/confirmreservation"
)

var now = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func Test_Decide_ConfirmPromotesWhenCopyAvailable(t *testing.T) {
	// arrange
	policy := core.DefaultPolicy()
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-time.Minute)),
	}

	// act
	result := confirmreservation.Decide(history, confirmreservation.BuildCommand("r-1", "b-1", now), policy)

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 2)
	assert.Equal(t, core.ReservationConfirmedEventType, result.Events[0].IsEventType())
	ready, ok := result.Events[1].(core.ReservationReadyForPickup)
	require.True(t, ok)
	assert.Equal(t, "r-1", ready.ReservationID)
	assert.Equal(t, now.Add(policy.PickupWindow), ready.PickupDeadline)
}

func Test_Decide_ConfirmWithoutCopyStaysConfirmed(t *testing.T) {
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-0", "b-1", "u-0", "", now.Add(-time.Hour)),
		core.BuildReservationReadyForPickup("r-0", "b-1", "u-0", now.Add(time.Hour), now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-time.Minute)),
	}

	result := confirmreservation.Decide(history, confirmreservation.BuildCommand("r-1", "b-1", now), core.DefaultPolicy())

	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	assert.Equal(t, core.ReservationConfirmedEventType, result.Events[0].IsEventType())
}

func Test_Decide_Idempotent_WhenAlreadyConfirmed(t *testing.T) {
	history := core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 0, now.Add(-time.Hour)),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-time.Minute)),
		core.BuildReservationConfirmed("r-1", "b-1", "u-1", now.Add(-time.Second)),
	}

	result := confirmreservation.Decide(history, confirmreservation.BuildCommand("r-1", "b-1", now), core.DefaultPolicy())

	assert.True(t, result.IsIdempotent())
}

func Test_Decide_Errors(t *testing.T) {
	stocked := core.BuildBookCopiesStocked("b-1", "Momo", 1, now.Add(-time.Hour))

	tests := []struct {
		name     string
		history  core.DomainEvents
		expected error
	}{
		{
			name:     "unknown_reservation",
			history:  core.DomainEvents{stocked},
			expected: core.ErrReservationNotFound,
		},
		{
			name: "cancelled_reservation",
			history: core.DomainEvents{
				stocked,
				core.BuildReservationPlaced("r-1", "b-1", "u-1", "", now.Add(-time.Minute)),
				core.BuildReservationCancelled("r-1", "b-1", "u-1", "", false, now.Add(-time.Second)),
			},
			expected: core.ErrInvalidReservationState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := confirmreservation.Decide(tt.history, confirmreservation.BuildCommand("r-1", "b-1", now), core.DefaultPolicy())

			assert.ErrorIs(t, result.HasError(), tt.expected)
			require.Len(t, result.Events, 1)
			assert.True(t, result.Events[0].IsErrorEvent())
		})
	}
}
