package placereservation

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	commandType = "PlaceReservation"
)

// Command represents the intent of a user to reserve a book.
// ReservationID is chosen by the caller, placing the same reservation twice is a no-op.
type Command struct {
	ReservationID core.ReservationIDString
	BookID        core.BookIDString
	UserID        core.UserIDString
	Notes         string
	OccurredAt    core.OccurredAtTS
}

func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	reservationID core.ReservationIDString,
	bookID core.BookIDString,
	userID core.UserIDString,
	notes string,
	occurredAt time.Time,
) Command {

	return Command{
		ReservationID: reservationID,
		BookID:        bookID,
		UserID:        userID,
		Notes:         notes,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
