package bookavailability

import (
	"context"

	"github.com/schoollibrary/circulation/circulation/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (BookAvailability, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, shell.BuildBookStreamFilter(query.BookID))
	if err != nil {
		return BookAvailability{}, err
	}

	return ProjectBookAvailability(history, query, maxSequenceNumber)
}
