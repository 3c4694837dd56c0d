package userreservations

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	queryType = "UserReservations"
)

// Query asks for all reservations of a user.
type Query struct {
	UserID core.UserIDString
}

func BuildQuery(userID core.UserIDString) Query {
	return Query{UserID: userID}
}

func (q Query) QueryType() string {
	return queryType
}
