package userloans

import (
	"context"

	"github.com/schoollibrary/circulation/circulation/shell"
)

// QueryHandler runs Query -> Unmarshal -> Query the books -> Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (UserLoans, error) {
	if query.UserID == "" {
		return ProjectUserLoans(nil, query, 0), nil
	}

	opened, _, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query))
	if err != nil {
		return UserLoans{}, err
	}

	states, maxSequenceNumber, err := shell.QueryBookStates(ctx, h.eventStore, shell.BookIDsIn(opened))
	if err != nil {
		return UserLoans{}, err
	}

	return ProjectUserLoans(states, query, maxSequenceNumber), nil
}
