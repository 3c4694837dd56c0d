package cancelreservation

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide cancels a reservation.
//
// Business Rules:
//
//	GIVEN: a pending, confirmed or ready reservation
//	WHEN: CancelReservation is received
//	THEN: ReservationCancelled; a ready reservation releases its copy and the queue is drained into it
//	ERROR: NotFound if the reservation does not exist
//	ERROR: InvariantViolation if the reservation was picked up or expired
//	IDEMPOTENCY: the reservation is already cancelled
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	state := core.ProjectBookState(command.BookID, history)

	reservation, ok := state.Reservation(command.ReservationID)
	if !ok {
		return fail(command, core.ErrReservationNotFound)
	}

	if reservation.Status == core.ReservationStatusCancelled {
		return core.IdempotentDecision()
	}

	if !reservation.Status.IsOpen() {
		return fail(command, core.ErrInvalidReservationState)
	}

	holdsCopy := reservation.Status == core.ReservationStatusReadyForPickup

	transition := core.NewTransition(state, policy, command.OccurredAt)
	transition.Record(core.BuildReservationCancelled(
		reservation.ReservationID,
		reservation.BookID,
		reservation.UserID,
		command.Reason,
		holdsCopy,
		command.OccurredAt,
	))

	if holdsCopy {
		transition.PromoteWhileAvailable()
	}

	return transition.Decision()
}

func fail(command Command, err error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildCancelingReservationFailed(command.BookID, command.ReservationID, err.Error(), command.OccurredAt),
		err,
	)
}
