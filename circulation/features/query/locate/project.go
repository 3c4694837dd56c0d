package locate

import (
	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/eventstore"
)

// ProjectLocation picks the book from the event that created the reservation or loan.
//
// Query Logic:
//
//	GIVEN: the ReservationPlaced or LoanOpened event of the id
//	WHEN: Locate is executed
//	THEN: the BookID and UserID of that event
//	ERROR: NotFound if no such event exists
func ProjectLocation(history core.DomainEvents, query Query, maxSequenceNumber uint) (Location, error) {
	for _, event := range history {
		switch e := event.(type) {
		case core.ReservationPlaced:
			if query.ReservationID != "" && e.ReservationID == query.ReservationID {
				return Location{BookID: e.BookID, UserID: e.UserID, SequenceNumber: maxSequenceNumber}, nil
			}
		case core.LoanOpened:
			if query.LoanID != "" && e.LoanID == query.LoanID {
				return Location{BookID: e.BookID, UserID: e.UserID, SequenceNumber: maxSequenceNumber}, nil
			}
		}
	}

	if query.LoanID != "" {
		return Location{}, core.ErrLoanNotFound
	}

	return Location{}, core.ErrReservationNotFound
}

// BuildEventFilter selects the creating event of the reservation or loan.
func BuildEventFilter(query Query) eventstore.Filter {
	if query.LoanID != "" {
		return eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(core.LoanOpenedEventType).
			AndAnyPredicateOf(eventstore.P("LoanID", query.LoanID)).
			Finalize()
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ReservationPlacedEventType).
		AndAnyPredicateOf(eventstore.P("ReservationID", query.ReservationID)).
		Finalize()
}
