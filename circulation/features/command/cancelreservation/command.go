package cancelreservation

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	commandType = "CancelReservation"
)

// Command represents the intent to cancel a reservation.
type Command struct {
	ReservationID core.ReservationIDString
	BookID        core.BookIDString
	Reason        string
	OccurredAt    core.OccurredAtTS
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(
	reservationID core.ReservationIDString,
	bookID core.BookIDString,
	reason string,
	occurredAt time.Time,
) Command {

	return Command{
		ReservationID: reservationID,
		BookID:        bookID,
		Reason:        reason,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
