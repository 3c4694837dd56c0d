package declareloanlost_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/command/declareloanlost"
)

var now = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func givenSingleCopyOnLoan() core.DomainEvents {
	borrowedAt := now.Add(-30 * 24 * time.Hour)

	return core.DomainEvents{
		core.BuildBookCopiesStocked("b-1", "Momo", 1, borrowedAt),
		core.BuildReservationPlaced("r-1", "b-1", "u-1", "", borrowedAt),
		core.BuildReservationReadyForPickup("r-1", "b-1", "u-1", borrowedAt.Add(time.Hour), borrowedAt),
		core.BuildReservationPickedUp("r-1", "b-1", "u-1", "l-1", borrowedAt),
		core.BuildLoanOpened("l-1", "r-1", "b-1", "u-1", borrowedAt.Add(14*24*time.Hour), borrowedAt),
	}
}

func Test_Decide_Success_LastCopyLostMarksBookLost(t *testing.T) {
	// arrange
	history := givenSingleCopyOnLoan()

	// act
	result := declareloanlost.Decide(history, declareloanlost.BuildCommand("l-1", "b-1", now))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	state := core.ProjectBookState("b-1", append(history, result.Events...))
	assert.Equal(t, core.Availability{Total: 0, Available: 0}, state.Ledger.Availability())
	assert.Equal(t, core.BookLost, state.Status())
	loan, _ := state.Loans.Get("l-1")
	assert.Equal(t, core.LoanStatusLost, loan.Status)
}

func Test_Decide_Idempotent_WhenAlreadyLost(t *testing.T) {
	history := append(givenSingleCopyOnLoan(), core.BuildLoanDeclaredLost("l-1", "b-1", "u-1", now.Add(-time.Hour)))

	result := declareloanlost.Decide(history, declareloanlost.BuildCommand("l-1", "b-1", now))

	assert.True(t, result.IsIdempotent())
}

func Test_Decide_Error_WhenReturned(t *testing.T) {
	history := append(givenSingleCopyOnLoan(),
		core.BuildLoanReturned("l-1", "b-1", "u-1", now, 0, decimal.Zero, now.Add(-time.Hour)),
	)

	result := declareloanlost.Decide(history, declareloanlost.BuildCommand("l-1", "b-1", now))

	assert.ErrorIs(t, result.HasError(), core.ErrLoanAlreadyReturned)
	assert.ErrorIs(t, result.HasError(), core.ErrInvariantViolation)
}

func Test_Decide_Error_WhenUnknown(t *testing.T) {
	result := declareloanlost.Decide(givenSingleCopyOnLoan(), declareloanlost.BuildCommand("l-2", "b-1", now))

	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
	assert.Equal(t, core.DeclaringLoanLostFailedEventType, result.Events[0].IsEventType())
}
