package locate

import (
	"context"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Location, error) {
	// an empty id would drop the predicate and match every creating event
	if query.LoanID == "" && query.ReservationID == "" {
		return Location{}, core.ErrReservationNotFound
	}

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query))
	if err != nil {
		return Location{}, err
	}

	return ProjectLocation(history, query, maxSequenceNumber)
}
