package sweepcandidates

import (
	"time"
)

const (
	queryType = "SweepCandidates"
)

// Query asks for the books with work due at Now.
type Query struct {
	Now time.Time
}

func BuildQuery(now time.Time) Query {
	return Query{Now: now}
}

func (q Query) QueryType() string {
	return queryType
}
