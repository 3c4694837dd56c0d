package returnloan

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide closes a loan.
//
// Business Rules:
//
//	GIVEN: an active or overdue loan
//	WHEN: ReturnLoan is received
//	THEN: LoanReturned with the late fee, followed by the promotion of the next waiting reservation
//	ERROR: NotFound if the loan does not exist
//	ERROR: InvariantViolation if the loan was declared lost
//	IDEMPOTENCY: the loan was already returned
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	state := core.ProjectBookState(command.BookID, history)

	loan, ok := state.Loans.Get(command.LoanID)
	if !ok {
		return fail(command, core.ErrLoanNotFound)
	}

	switch loan.Status {
	case core.LoanStatusReturned:
		return core.IdempotentDecision()
	case core.LoanStatusLost:
		return fail(command, core.ErrLoanLost)
	}

	daysOverdue, fine := policy.FineFor(loan.DueDate, command.OccurredAt)

	transition := core.NewTransition(state, policy, command.OccurredAt)
	transition.Record(core.BuildLoanReturned(
		loan.LoanID,
		loan.BookID,
		loan.UserID,
		loan.DueDate,
		daysOverdue,
		fine,
		command.OccurredAt,
	))
	transition.PromoteWhileAvailable()

	return transition.Decision()
}

func fail(command Command, err error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildReturningLoanFailed(command.BookID, command.LoanID, err.Error(), command.OccurredAt),
		err,
	)
}
