package renewloan

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide renews a loan by one LoanPeriod, counted from the current due date.
//
// Business Rules:
//
//	GIVEN: an active loan
//	WHEN: RenewLoan is received
//	THEN: LoanRenewed with the incremented renewal count and the new due date
//	ERROR: NotFound if the loan does not exist
//	ERROR: InvariantViolation if the loan is not active
//	ERROR: PolicyViolation if MaxRenewals is reached, or another user is waiting for the book
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	state := core.ProjectBookState(command.BookID, history)

	loan, ok := state.Loans.Get(command.LoanID)
	if !ok {
		return fail(command, core.ErrLoanNotFound)
	}

	if err := state.Loans.CheckRenewal(loan.LoanID, state.OthersWaiting(loan.UserID), policy); err != nil {
		return fail(command, err)
	}

	return core.SuccessDecision(
		core.BuildLoanRenewed(
			loan.LoanID,
			loan.BookID,
			loan.UserID,
			loan.RenewedCount+1,
			loan.DueDate.Add(policy.LoanPeriod),
			command.OccurredAt,
		),
	)
}

func fail(command Command, err error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildRenewingLoanFailed(command.BookID, command.LoanID, err.Error(), command.OccurredAt),
		err,
	)
}
