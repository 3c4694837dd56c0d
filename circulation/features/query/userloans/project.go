package userloans

import (
	"slices"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/eventstore"
)

// ProjectUserLoans picks the loans of the user from the projected books.
//
// Query Logic:
//
//	GIVEN: the states of every book the user ever borrowed
//	WHEN: UserLoans is executed
//	THEN: the loans of the user, oldest first
//	EXCLUDES: returned and lost loans when OpenOnly is set
func ProjectUserLoans(states []*core.BookState, query Query, maxSequenceNumber uint) UserLoans {
	loans := make([]core.Loan, 0)

	for _, state := range states {
		for _, loan := range state.Loans.All() {
			if loan.UserID != query.UserID {
				continue
			}

			if query.OpenOnly && !loan.IsOpen() {
				continue
			}

			loans = append(loans, loan)
		}
	}

	slices.SortStableFunc(loans, func(a, b core.Loan) int {
		return a.BorrowedAt.Compare(b.BorrowedAt)
	})

	return UserLoans{
		UserID:         query.UserID,
		Loans:          loans,
		Count:          len(loans),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects the loans opened by the user, which name the books to load.
func BuildEventFilter(query Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.LoanOpenedEventType).
		AndAnyPredicateOf(eventstore.P("UserID", query.UserID)).
		Finalize()
}
