package stockbookcopies

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide stocks copies of a book and drains the queue into them.
//
// Business Rules:
//
//	GIVEN: a book, known or not
//	WHEN: StockBookCopies is received
//	THEN: BookCopiesStocked, followed by one ReservationReadyForPickup per promoted reservation
//	ERROR: InvariantViolation if the number of copies is not positive
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	if command.Copies <= 0 {
		return core.ErrorDecision(
			core.BuildStockingBookCopiesFailed(command.BookID, core.ErrInvalidCopyCount.Error(), command.OccurredAt),
			core.ErrInvalidCopyCount,
		)
	}

	state := core.ProjectBookState(command.BookID, history)
	transition := core.NewTransition(state, policy, command.OccurredAt)

	transition.Record(core.BuildBookCopiesStocked(command.BookID, command.Title, command.Copies, command.OccurredAt))
	transition.PromoteWhileAvailable()

	return transition.Decision()
}
