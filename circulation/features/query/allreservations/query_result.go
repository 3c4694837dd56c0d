package allreservations

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// AllReservations holds the matching reservations, oldest request first.
type AllReservations struct {
	Reservations   []core.Reservation
	Count          int
	SequenceNumber uint
}

func (r AllReservations) GetSequenceNumber() uint {
	return r.SequenceNumber
}
