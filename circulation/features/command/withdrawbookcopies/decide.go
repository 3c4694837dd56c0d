package withdrawbookcopies

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide withdraws shelved copies. Lent and held copies cannot be withdrawn.
//
// Business Rules:
//
//	GIVEN: a known book with enough available copies
//	WHEN: WithdrawBookCopies is received
//	THEN: BookCopiesWithdrawn
//	ERROR: NotFound if the book was never stocked
//	ERROR: InvariantViolation if the count is not positive, exceeds the available copies,
//	       or the reason is neither maintenance nor lost
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	state := core.ProjectBookState(command.BookID, history)

	switch {
	case !state.Exists():
		return fail(command, core.ErrBookNotFound)
	case command.Copies <= 0:
		return fail(command, core.ErrInvalidCopyCount)
	case command.Reason != core.WithdrawnForMaintenance && command.Reason != core.WithdrawnAsLost:
		return fail(command, core.ErrInvalidWithdrawalReason)
	case command.Copies > state.Ledger.Available:
		return fail(command, core.ErrNotEnoughAvailableCopies)
	}

	return core.SuccessDecision(
		core.BuildBookCopiesWithdrawn(command.BookID, command.Copies, command.Reason, command.OccurredAt),
	)
}

func fail(command Command, err error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildWithdrawingBookCopiesFailed(command.BookID, err.Error(), command.OccurredAt),
		err,
	)
}
