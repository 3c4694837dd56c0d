package shell

import (
	"context"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/eventstore"
)

// QueryHistory runs Query -> Unmarshal for read models. Reads may be served by a replica.
func QueryHistory(ctx context.Context, eventStore QueriesEvents, filter eventstore.Filter) (
	core.DomainEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSequenceNumber, err := eventStore.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}

// BookIDsIn returns the distinct book ids of history in order of first appearance.
func BookIDsIn(history core.DomainEvents) []core.BookIDString {
	seen := make(map[core.BookIDString]struct{})
	bookIDs := make([]core.BookIDString, 0)

	for _, event := range history {
		bookID := event.HasBookID()
		if _, ok := seen[bookID]; ok {
			continue
		}

		seen[bookID] = struct{}{}
		bookIDs = append(bookIDs, bookID)
	}

	return bookIDs
}

// QueryBookStates loads the streams of bookIDs and projects one BookState per book.
func QueryBookStates(ctx context.Context, eventStore QueriesEvents, bookIDs []core.BookIDString) (
	[]*core.BookState,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if len(bookIDs) == 0 {
		return nil, 0, nil
	}

	history, maxSequenceNumber, err := QueryHistory(ctx, eventStore, BuildBooksStreamFilter(bookIDs[0], bookIDs[1:]...))
	if err != nil {
		return nil, 0, err
	}

	return core.ProjectBookStates(history), maxSequenceNumber, nil
}
