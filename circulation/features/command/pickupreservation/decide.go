package pickupreservation

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Decide hands the held copy to the user.
//
// Business Rules:
//
//	GIVEN: a reservation ready for pickup
//	WHEN: PickupReservation is received before the pickup deadline
//	THEN: ReservationPickedUp and LoanOpened, due LoanPeriod from now
//	ERROR: NotFound if the reservation does not exist
//	ERROR: InvariantViolation if the reservation is not ready, or the deadline has passed
//	IDEMPOTENCY: the reservation was already picked up
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	state := core.ProjectBookState(command.BookID, history)

	reservation, ok := state.Reservation(command.ReservationID)
	if !ok {
		return fail(command, core.ErrReservationNotFound)
	}

	switch {
	case reservation.Status == core.ReservationStatusPickedUp:
		return core.IdempotentDecision()
	case reservation.Status != core.ReservationStatusReadyForPickup:
		return fail(command, core.ErrInvalidReservationState)
	case reservation.PickupDeadline != nil && command.OccurredAt.After(*reservation.PickupDeadline):
		return fail(command, core.ErrPickupDeadlinePassed)
	}

	return core.SuccessDecision(
		core.BuildReservationPickedUp(
			reservation.ReservationID,
			reservation.BookID,
			reservation.UserID,
			command.LoanID,
			command.OccurredAt,
		),
		core.BuildLoanOpened(
			command.LoanID,
			reservation.ReservationID,
			reservation.BookID,
			reservation.UserID,
			command.OccurredAt.Add(policy.LoanPeriod),
			command.OccurredAt,
		),
	)
}

func fail(command Command, err error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildPickingUpReservationFailed(command.BookID, command.ReservationID, err.Error(), command.OccurredAt),
		err,
	)
}
