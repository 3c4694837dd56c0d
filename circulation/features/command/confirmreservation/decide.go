package confirmreservation

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide confirms a pending reservation, then promotes waiting reservations while copies are available.
// The confirmed reservation keeps its place, so an earlier reservation may be promoted first.
//
// Business Rules:
//
//	GIVEN: a pending reservation
//	WHEN: ConfirmReservation is received
//	THEN: ReservationConfirmed, followed by ReservationReadyForPickup for each promoted reservation
//	ERROR: NotFound if the reservation does not exist
//	ERROR: InvariantViolation if the reservation was cancelled or expired
//	IDEMPOTENCY: the reservation is already confirmed, ready or picked up
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	state := core.ProjectBookState(command.BookID, history)

	reservation, ok := state.Reservation(command.ReservationID)
	if !ok {
		return fail(command, core.ErrReservationNotFound)
	}

	switch reservation.Status {
	case core.ReservationStatusConfirmed, core.ReservationStatusReadyForPickup, core.ReservationStatusPickedUp:
		return core.IdempotentDecision()

	case core.ReservationStatusPending:
		transition := core.NewTransition(state, policy, command.OccurredAt)
		transition.Record(core.BuildReservationConfirmed(
			reservation.ReservationID,
			reservation.BookID,
			reservation.UserID,
			command.OccurredAt,
		))
		transition.PromoteWhileAvailable()

		return transition.Decision()

	default:
		return fail(command, core.ErrInvalidReservationState)
	}
}

func fail(command Command, err error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildConfirmingReservationFailed(command.BookID, command.ReservationID, err.Error(), command.OccurredAt),
		err,
	)
}
