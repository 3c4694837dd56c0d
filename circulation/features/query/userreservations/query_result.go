package userreservations

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// UserReservations holds the reservations of one user, oldest request first.
type UserReservations struct {
	UserID         core.UserIDString
	Reservations   []core.Reservation
	Count          int
	SequenceNumber uint
}

func (r UserReservations) GetSequenceNumber() uint {
	return r.SequenceNumber
}
