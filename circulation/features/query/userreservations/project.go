package userreservations

import (
	"slices"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/eventstore"
)

// ProjectUserReservations picks the reservations of the user from the projected books.
// Priorities are live: they depend on the other users in each queue, so the states must
// be folded from the complete book streams.
//
// Query Logic:
//
//	GIVEN: the states of every book the user ever reserved
//	WHEN: UserReservations is executed
//	THEN: all reservations of the user in any status, oldest request first
func ProjectUserReservations(states []*core.BookState, query Query, maxSequenceNumber uint) UserReservations {
	reservations := make([]core.Reservation, 0)

	for _, state := range states {
		for _, r := range state.Reservations() {
			if r.UserID == query.UserID {
				reservations = append(reservations, r)
			}
		}
	}

	slices.SortStableFunc(reservations, func(a, b core.Reservation) int {
		return a.RequestedAt.Compare(b.RequestedAt)
	})

	return UserReservations{
		UserID:         query.UserID,
		Reservations:   reservations,
		Count:          len(reservations),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects the reservations placed by the user, which name the books to load.
func BuildEventFilter(query Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ReservationPlacedEventType).
		AndAnyPredicateOf(eventstore.P("UserID", query.UserID)).
		Finalize()
}
