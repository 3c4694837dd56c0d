package allreservations

import (
	"slices"

	"github.com/schoollibrary/circulation/circulation/core"
)

// ProjectAllReservations folds the lifecycle of all books and collects their reservations.
//
// Query Logic:
//
//	GIVEN: the lifecycle events of every book
//	WHEN: AllReservations is executed
//	THEN: every reservation with the requested status (all when empty), oldest request first
//	ERROR: InvariantViolation if the status filter is not a reservation status
func ProjectAllReservations(history core.DomainEvents, query Query, maxSequenceNumber uint) (AllReservations, error) {
	if query.Status != "" && !query.Status.IsValid() {
		return AllReservations{}, core.ErrUnknownReservationStatus
	}

	reservations := make([]core.Reservation, 0)
	for _, state := range core.ProjectBookStates(history) {
		for _, r := range state.Reservations() {
			if query.Status == "" || r.Status == query.Status {
				reservations = append(reservations, r)
			}
		}
	}

	slices.SortStableFunc(reservations, func(a, b core.Reservation) int {
		return a.RequestedAt.Compare(b.RequestedAt)
	})

	return AllReservations{
		Reservations:   reservations,
		Count:          len(reservations),
		SequenceNumber: maxSequenceNumber,
	}, nil
}
