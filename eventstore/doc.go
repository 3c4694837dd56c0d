// Package eventstore holds the engine-agnostic building blocks of the circulation event store.
//
// A "dynamic event stream" is not a physical stream. It is whatever a Filter selects:
// a set of event types combined with JSON payload predicates. Command handlers query the
// stream they need for a decision, remember the highest sequence number they saw, and
// append new events guarded by that number. When another writer appended to the same
// filtered stream meanwhile, the append fails with ErrConcurrencyConflict.
//
// Key types:
//   - Filter and FilterBuilder: the criteria for a dynamic event stream
//   - StorableEvent: the scalar DTO engines persist and return
//   - Logger, ContextualLogger, MetricsCollector, TracingCollector: dependency-free observability hooks
//
// Typical usage, querying everything that happened to one book:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.ReservationPlacedEventType,
//			core.LoanReturnedEventType).
//		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	err = store.Append(ctx, filter, maxSeq, newEvents...)
package eventstore
