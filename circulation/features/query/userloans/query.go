package userloans

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	queryType = "UserLoans"
)

// Query asks for the loans of a user. OpenOnly drops returned and lost loans.
type Query struct {
	UserID   core.UserIDString
	OpenOnly bool
}

func BuildQuery(userID core.UserIDString, openOnly bool) Query {
	return Query{UserID: userID, OpenOnly: openOnly}
}

func (q Query) QueryType() string {
	return queryType
}
