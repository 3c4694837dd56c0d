package userreservations

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

func (h QueryHandler) Handle(ctx context.Context, query Query) (UserReservations, error) {
	if query.UserID == "" {
		return ProjectUserReservations(nil, query, 0), nil
	}

	placed, _, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query))
	if err != nil {
		return UserReservations{}, err
	}

	states, maxSequenceNumber, err := shell.QueryBookStates(ctx, h.eventStore, shell.BookIDsIn(placed))
	if err != nil {
		return UserReservations{}, err
	}

	return ProjectUserReservations(states, query, maxSequenceNumber), nil
}
