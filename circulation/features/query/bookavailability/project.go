package bookavailability

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// ProjectBookAvailability folds the stream of one book into its availability.
//
// Query Logic:
//
//	GIVEN: the lifecycle events of the book
//	WHEN: BookAvailability is executed
//	THEN: copy counts, derived status and the number of waiting reservations
//	ERROR: NotFound if the book was never stocked
func ProjectBookAvailability(history core.DomainEvents, query Query, maxSequenceNumber uint) (BookAvailability, error) {
	state := core.ProjectBookState(query.BookID, history)
	if !state.Exists() {
		return BookAvailability{}, core.ErrBookNotFound
	}

	return AvailabilityOf(state, maxSequenceNumber), nil
}

// AvailabilityOf reads the availability of an already folded book.
func AvailabilityOf(state *core.BookState, sequenceNumber uint) BookAvailability {
	return BookAvailability{
		BookID:          state.BookID,
		Title:           state.Title,
		TotalCopies:     state.Ledger.Total,
		AvailableCopies: state.Ledger.Available,
		Status:          state.Status(),
		QueueLength:     state.Queue.Len(),
		SequenceNumber:  sequenceNumber,
	}
}
