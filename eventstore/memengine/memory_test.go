package memengine_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/eventstore/memengine"
)

func givenEvent(t *testing.T, eventType string, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, time.Now(), []byte(payload))
	require.NoError(t, err, "error in arranging test data")

	return event
}

func bookFilter(bookID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("ReservationPlaced", "LoanReturned").
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

func Test_Append_And_Query_Filtered_Stream(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memengine.NewEventStore()
	filterBook1 := bookFilter("b-1")

	// act
	require.NoError(t, es.Append(ctx, filterBook1, 0,
		givenEvent(t, "ReservationPlaced", `{"BookID":"b-1","UserID":"u-1"}`),
		givenEvent(t, "LoanReturned", `{"BookID":"b-1"}`),
	))
	require.NoError(t, es.Append(ctx, bookFilter("b-2"), 0, givenEvent(t, "ReservationPlaced", `{"BookID":"b-2"}`)))
	require.NoError(t, es.Append(ctx, filterBook1, 2, givenEvent(t, "SomethingElse", `{"BookID":"b-1"}`)))

	// assert
	events, maxSeq, err := es.Query(ctx, filterBook1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(2), maxSeq)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(1), events[0].SequenceNumber)
	assert.Equal(t, "LoanReturned", events[1].EventType)
	assert.Equal(t, 4, es.Len())
}

func Test_Append_Detects_Concurrency_Conflict(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memengine.NewEventStore()
	filter := bookFilter("b-1")
	require.NoError(t, es.Append(ctx, filter, 0, givenEvent(t, "ReservationPlaced", `{"BookID":"b-1"}`)))

	// act
	err := es.Append(ctx, filter, 0,
		givenEvent(t, "ReservationPlaced", `{"BookID":"b-1"}`),
		givenEvent(t, "LoanReturned", `{"BookID":"b-1"}`),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 1, es.Len(), "no event of a rejected batch may be stored")
}

func Test_Append_Other_Stream_Does_Not_Conflict(t *testing.T) {
	ctx := context.Background()
	es := memengine.NewEventStore()
	require.NoError(t, es.Append(ctx, bookFilter("b-1"), 0, givenEvent(t, "ReservationPlaced", `{"BookID":"b-1"}`)))

	err := es.Append(ctx, bookFilter("b-2"), 0, givenEvent(t, "ReservationPlaced", `{"BookID":"b-2"}`))

	assert.NoError(t, err)
}

func Test_Append_Rejects_Empty_Batch(t *testing.T) {
	err := memengine.NewEventStore().Append(context.Background(), bookFilter("b-1"), 0)

	assert.ErrorIs(t, err, eventstore.ErrEmptyEventsToAppend)
}

func Test_Query_All_Predicates_Must_Match(t *testing.T) {
	ctx := context.Background()
	es := memengine.NewEventStore()
	require.NoError(t, es.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), 0,
		givenEvent(t, "ReservationPlaced", `{"BookID":"b-1","UserID":"u-1"}`),
		givenEvent(t, "ReservationPlaced", `{"BookID":"b-1","UserID":"u-2"}`),
	))

	filter := eventstore.BuildEventFilter().
		Matching().
		AllPredicatesOf(eventstore.P("BookID", "b-1"), eventstore.P("UserID", "u-2")).
		Finalize()

	events, maxSeq, err := es.Query(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(2), maxSeq)
}

func Test_Query_Honours_Cancelled_Context(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := memengine.NewEventStore().Query(ctx, bookFilter("b-1"))

	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Concurrent_Appends_On_Same_Stream_Only_One_Wins(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memengine.NewEventStore()
	filter := bookFilter("b-1")
	const writers = 20
	event := givenEvent(t, "ReservationPlaced", `{"BookID":"b-1"}`)

	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup

	// act
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := es.Append(ctx, filter, 0, event)
			switch err {
			case nil:
				wins.Add(1)
			case eventstore.ErrConcurrencyConflict:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(writers-1), conflicts.Load())
}
