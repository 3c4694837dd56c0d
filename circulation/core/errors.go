package core

import (
	"errors"
)

// The error taxonomy. Every business error returned by this package wraps exactly one of these,
// so callers can classify with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrPolicyViolation    = errors.New("policy violation")
)

var (
	ErrBookNotFound        = newCirculationError(ErrNotFound, "book not found")
	ErrReservationNotFound = newCirculationError(ErrNotFound, "reservation not found")
	ErrLoanNotFound        = newCirculationError(ErrNotFound, "loan not found")

	ErrInvalidCopyCount         = newCirculationError(ErrInvariantViolation, "copy count must be positive")
	ErrInvalidWithdrawalReason  = newCirculationError(ErrInvariantViolation, "withdrawal reason must be maintenance or lost")
	ErrNotEnoughAvailableCopies = newCirculationError(ErrInvariantViolation, "not enough available copies")
	ErrInvalidReservationState  = newCirculationError(ErrInvariantViolation, "reservation is not in a state that allows this transition")
	ErrPickupDeadlinePassed     = newCirculationError(ErrInvariantViolation, "pickup deadline has passed")
	ErrLoanNotActive            = newCirculationError(ErrInvariantViolation, "loan is not active")
	ErrLoanLost                 = newCirculationError(ErrInvariantViolation, "loan was declared lost")
	ErrLoanAlreadyReturned      = newCirculationError(ErrInvariantViolation, "loan was already returned")
	ErrUnknownReservationStatus = newCirculationError(ErrInvariantViolation, "unknown reservation status")
	ErrCopiesOvercommitted      = newCirculationError(ErrInvariantViolation, "more holds promoted than copies stocked")

	ErrQueueFull         = newCirculationError(ErrCapacityExceeded, "reservation queue is full")
	ErrNoCopiesAvailable = newCirculationError(ErrCapacityExceeded, "no copies available")

	ErrAlreadyPendingForBook  = newCirculationError(ErrPolicyViolation, "user already has an open reservation for this book")
	ErrRenewalLimitReached    = newCirculationError(ErrPolicyViolation, "renewal limit reached")
	ErrHasPendingReservations = newCirculationError(ErrPolicyViolation, "other users are waiting for this book")
)

type circulationError struct {
	kind    error
	message string
}

func newCirculationError(kind error, message string) error {
	return &circulationError{kind: kind, message: message}
}

func (e *circulationError) Error() string {
	return e.message
}

func (e *circulationError) Unwrap() error {
	return e.kind
}

// Kind returns the taxonomy sentinel err belongs to, or nil for errors outside the taxonomy.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvariantViolation, ErrCapacityExceeded, ErrPolicyViolation} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return nil
}
