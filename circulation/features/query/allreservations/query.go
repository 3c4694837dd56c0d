package allreservations

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	queryType = "AllReservations"
)

// Query lists all reservations. An empty Status lists every status.
type Query struct {
	Status core.ReservationStatus
}

func BuildQuery(status core.ReservationStatus) Query {
	return Query{Status: status}
}

func (q Query) QueryType() string {
	return queryType
}
