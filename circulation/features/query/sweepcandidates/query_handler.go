package sweepcandidates

import (
	"context"

	"github.com/schoollibrary/circulation/circulation/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project over all books.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (SweepCandidates, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, shell.BuildAllBooksFilter())
	if err != nil {
		return SweepCandidates{}, err
	}

	return ProjectSweepCandidates(history, query, maxSequenceNumber), nil
}
