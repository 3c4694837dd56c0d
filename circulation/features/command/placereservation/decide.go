package placereservation

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide enqueues a reservation.
//
// Business Rules:
//
//	GIVEN: a stocked book
//	WHEN: PlaceReservation is received
//	THEN: ReservationPlaced, the reservation is pending at the end of the queue
//	ERROR: NotFound if the book was never stocked
//	ERROR: PolicyViolation if the user already has an open reservation for the book
//	ERROR: CapacityExceeded if the queue holds QueueCapacityFactor entries per copy
//	IDEMPOTENCY: a reservation with the same id already exists
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	state := core.ProjectBookState(command.BookID, history)

	if _, exists := state.Reservation(command.ReservationID); exists {
		return core.IdempotentDecision()
	}

	if err := check(state, command, policy); err != nil {
		return core.ErrorDecision(
			core.BuildReservingBookFailed(command.BookID, command.ReservationID, err.Error(), command.OccurredAt),
			err,
		)
	}

	return core.SuccessDecision(core.BuildReservationPlaced(
		command.ReservationID,
		command.BookID,
		command.UserID,
		command.Notes,
		command.OccurredAt,
	))
}

func check(state *core.BookState, command Command, policy core.Policy) error {
	switch {
	case !state.Exists():
		return core.ErrBookNotFound
	case state.HasOpenReservation(command.UserID):
		return core.ErrAlreadyPendingForBook
	case state.QueueIsFull(policy):
		return core.ErrQueueFull
	default:
		return nil
	}
}
