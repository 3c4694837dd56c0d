package declareloanlost

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide writes off the copy of an open loan, the book loses one copy for good.
//
// Business Rules:
//
//	GIVEN: an active or overdue loan
//	WHEN: DeclareLoanLost is received
//	THEN: LoanDeclaredLost
//	ERROR: NotFound if the loan does not exist
//	ERROR: InvariantViolation if the loan was returned
//	IDEMPOTENCY: the loan is already lost
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	state := core.ProjectBookState(command.BookID, history)

	loan, ok := state.Loans.Get(command.LoanID)
	if !ok {
		return fail(command, core.ErrLoanNotFound)
	}

	switch loan.Status {
	case core.LoanStatusLost:
		return core.IdempotentDecision()
	case core.LoanStatusReturned:
		return fail(command, core.ErrLoanAlreadyReturned)
	}

	return core.SuccessDecision(
		core.BuildLoanDeclaredLost(loan.LoanID, loan.BookID, loan.UserID, command.OccurredAt),
	)
}

func fail(command Command, err error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildDeclaringLoanLostFailed(command.BookID, command.LoanID, err.Error(), command.OccurredAt),
		err,
	)
}
