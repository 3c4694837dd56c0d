package confirmreservation

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	commandType = "ConfirmReservation"
)

// Command represents the intent to confirm a pending reservation.
type Command struct {
	ReservationID core.ReservationIDString
	BookID        core.BookIDString
	OccurredAt    core.OccurredAtTS
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(reservationID core.ReservationIDString, bookID core.BookIDString, occurredAt time.Time) Command {
	return Command{
		ReservationID: reservationID,
		BookID:        bookID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
