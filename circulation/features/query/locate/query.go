package locate

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	queryType = "Locate"
)

// Query names either a reservation or a loan.
type Query struct {
	ReservationID core.ReservationIDString
	LoanID        core.LoanIDString
}

func BuildReservationQuery(reservationID core.ReservationIDString) Query {
	return Query{ReservationID: reservationID}
}

func BuildLoanQuery(loanID core.LoanIDString) Query {
	return Query{LoanID: loanID}
}

func (q Query) QueryType() string {
	return queryType
}
