package expireholds

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide sweeps one book.
//
// Business Rules:
//
//	GIVEN: a book with holds past their pickup deadline, or active loans past their due date
//	WHEN: ExpireHolds is received
//	THEN: ReservationExpired per lapsed hold, ReservationReadyForPickup per promotion into the
//	      released copies, LoanMarkedOverdue per past-due loan
//	IDEMPOTENCY: nothing is due
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	state := core.ProjectBookState(command.BookID, history)
	transition := core.NewTransition(state, policy, command.OccurredAt)

	for _, hold := range state.LapsedHolds(command.OccurredAt) {
		transition.Record(core.BuildReservationExpired(
			hold.ReservationID,
			hold.BookID,
			hold.UserID,
			*hold.PickupDeadline,
			command.OccurredAt,
		))
	}

	transition.PromoteWhileAvailable()

	for _, loan := range state.Loans.PastDue(command.OccurredAt) {
		transition.Record(core.BuildLoanMarkedOverdue(
			loan.LoanID,
			loan.BookID,
			loan.UserID,
			loan.DueDate,
			command.OccurredAt,
		))
	}

	return transition.Decision()
}
