package bookavailability

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	queryType = "BookAvailability"
)

// Query asks for the availability of one book.
type Query struct {
	BookID core.BookIDString
}

func BuildQuery(bookID core.BookIDString) Query {
	return Query{BookID: bookID}
}

func (q Query) QueryType() string {
	return queryType
}
