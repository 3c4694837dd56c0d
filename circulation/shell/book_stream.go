package shell

import (
	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/eventstore"
)

const bookIDPredicateKey = "BookID"

// BuildBookStreamFilter selects the lifecycle events of one book. It is the consistency
// boundary of every command: two decisions on the same book conflict, different books never do.
func BuildBookStreamFilter(bookID core.BookIDString) eventstore.Filter {
	lifecycleEventTypes := core.LifecycleEventTypes()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(lifecycleEventTypes[0], lifecycleEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P(bookIDPredicateKey, bookID)).
		Finalize()
}

// BuildAllBooksFilter selects the lifecycle events of every book.
func BuildAllBooksFilter() eventstore.Filter {
	lifecycleEventTypes := core.LifecycleEventTypes()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(lifecycleEventTypes[0], lifecycleEventTypes[1:]...).
		Finalize()
}

// BuildBooksStreamFilter selects the lifecycle events of the given books.
func BuildBooksStreamFilter(bookID core.BookIDString, bookIDs ...core.BookIDString) eventstore.Filter {
	lifecycleEventTypes := core.LifecycleEventTypes()

	predicates := make([]eventstore.FilterPredicate, 0, len(bookIDs))
	for _, id := range bookIDs {
		predicates = append(predicates, eventstore.P(bookIDPredicateKey, id))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(lifecycleEventTypes[0], lifecycleEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P(bookIDPredicateKey, bookID), predicates...).
		Finalize()
}
