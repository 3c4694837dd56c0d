package postgresengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore"
)

func Test_BuildSelectQuery_Translates_Filter(t *testing.T) {
	es := &EventStore{eventTableName: defaultEventTableName}
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("ReservationPlaced", "LoanOpened").
		AndAnyPredicateOf(eventstore.P("BookID", "b-1")).
		OrMatching().
		AllPredicatesOf(eventstore.P("UserID", "u-1"), eventstore.P("BookID", "b-2")).
		Finalize()

	sqlQuery, err := es.buildSelectQuery(filter)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "events"`)
	assert.Contains(t, sqlQuery, `"event_type" IN ('LoanOpened', 'ReservationPlaced')`)
	assert.Contains(t, sqlQuery, `payload @> '{"BookID":"b-1"}'::jsonb`)
	assert.Contains(t, sqlQuery, `payload @> '{"UserID":"u-1"}'::jsonb`)
	assert.Contains(t, sqlQuery, `payload @> '{"BookID":"b-2"}'::jsonb`)
	assert.Contains(t, sqlQuery, " OR ")
	assert.Contains(t, sqlQuery, `ORDER BY "sequence_number" ASC`)
}

func Test_BuildSelectQuery_Without_Filter_Has_No_Where(t *testing.T) {
	es := &EventStore{eventTableName: "circulation_events"}

	sqlQuery, err := es.buildSelectQuery(eventstore.BuildEventFilter().MatchingAnyEvent())

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "circulation_events"`)
	assert.NotContains(t, sqlQuery, "WHERE")
}

func Test_BuildInsertQuery_Guards_Expected_Sequence(t *testing.T) {
	es := &EventStore{eventTableName: defaultEventTableName}
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("ReservationPlaced").
		AndAnyPredicateOf(eventstore.P("BookID", "b-1")).
		Finalize()

	first, err := eventstore.BuildStorableEventWithEmptyMetadata("ReservationPlaced", time.Now(), []byte(`{"BookID":"b-1"}`))
	require.NoError(t, err)
	second, err := eventstore.BuildStorableEventWithEmptyMetadata("ReservationConfirmed", time.Now(), []byte(`{"BookID":"b-1"}`))
	require.NoError(t, err)

	sqlQuery, err := es.buildInsertQuery(eventstore.StorableEvents{first, second}, filter, 7)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `WITH context AS (SELECT MAX("sequence_number") AS "max_seq" FROM "events"`)
	assert.Contains(t, sqlQuery, "UNION ALL")
	assert.Contains(t, sqlQuery, `COALESCE("max_seq", 0) = 7`)
}

func Test_AppendLockKeys(t *testing.T) {
	tests := []struct {
		name   string
		filter eventstore.Filter
		want   []string
	}{
		{
			name: "one key per distinct predicate, sorted",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf("ReservationPlaced").
				AndAnyPredicateOf(eventstore.P("BookID", "b-2")).
				OrMatching().
				AllPredicatesOf(eventstore.P("UserID", "u-1"), eventstore.P("BookID", "b-2")).
				Finalize(),
			want: []string{"events:BookID=b-2", "events:UserID=u-1"},
		},
		{
			name: "item without predicates locks the table",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyPredicateOf(eventstore.P("BookID", "b-1")).
				OrMatching().
				AnyEventTypeOf("LoanOpened").
				Finalize(),
			want: []string{"events:*"},
		},
		{
			name:   "empty filter locks the table",
			filter: eventstore.BuildEventFilter().MatchingAnyEvent(),
			want:   []string{"events:*"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, appendLockKeys(defaultEventTableName, tt.filter))
		})
	}
}
