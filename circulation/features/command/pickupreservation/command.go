package pickupreservation

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	commandType = "PickupReservation"
)

// Command represents a user collecting the copy held for a reservation.
// LoanID names the loan to open.
type Command struct {
	ReservationID core.ReservationIDString
	BookID        core.BookIDString
	LoanID        core.LoanIDString
	OccurredAt    core.OccurredAtTS
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(
	reservationID core.ReservationIDString,
	bookID core.BookIDString,
	loanID core.LoanIDString,
	occurredAt time.Time,
) Command {

	return Command{
		ReservationID: reservationID,
		BookID:        bookID,
		LoanID:        loanID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
