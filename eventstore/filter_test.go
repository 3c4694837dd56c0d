package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoollibrary/circulation/eventstore"
)

func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, filter eventstore.Filter)
	}{
		{
			name: "matching_any_event_creates_empty_filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
			},
		},
		{
			name: "event_types_are_sorted_and_deduplicated",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("LoanReturned", "", "ReservationPlaced", "LoanReturned").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"LoanReturned", "ReservationPlaced"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "event_types_and_any_predicate",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("ReservationPlaced").
					AndAnyPredicateOf(eventstore.P("BookID", "b-1"), eventstore.P("", "x"), eventstore.P("UserID", "")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []eventstore.FilterPredicate{eventstore.P("BookID", "b-1")}, f.Items()[0].Predicates())
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "predicates_with_same_key_keep_distinct_values",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyPredicateOf(eventstore.P("BookID", "b-2"), eventstore.P("BookID", "b-1"), eventstore.P("BookID", "b-2")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Equal(t,
					[]eventstore.FilterPredicate{eventstore.P("BookID", "b-1"), eventstore.P("BookID", "b-2")},
					f.Items()[0].Predicates(),
				)
			},
		},
		{
			name: "all_predicates_and_event_types",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AllPredicatesOf(eventstore.P("UserID", "u-1"), eventstore.P("BookID", "b-1")).
					AndAnyEventTypeOf("ReservationPlaced").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
				assert.Equal(t, "BookID", f.Items()[0].Predicates()[0].Key())
				assert.Equal(t, "UserID", f.Items()[0].Predicates()[1].Key())
				assert.Equal(t, []string{"ReservationPlaced"}, f.Items()[0].EventTypes())
			},
		},
		{
			name: "or_matching_creates_multiple_items",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("ReservationPlaced").
					AndAnyPredicateOf(eventstore.P("ReservationID", "r-1")).
					OrMatching().
					AnyEventTypeOf("LoanOpened").
					AndAnyPredicateOf(eventstore.P("LoanID", "r-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 2)
				assert.Equal(t, []string{"ReservationPlaced"}, f.Items()[0].EventTypes())
				assert.Equal(t, []string{"LoanOpened"}, f.Items()[1].EventTypes())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_FilterBuilder_PartialBuildersCanBeReused(t *testing.T) {
	// arrange
	base := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("ReservationPlaced")

	// act
	first := base.AndAnyPredicateOf(eventstore.P("BookID", "b-1")).Finalize()
	second := base.AndAnyPredicateOf(eventstore.P("BookID", "b-2")).Finalize()

	// assert
	assert.Equal(t, "b-1", first.Items()[0].Predicates()[0].Val())
	assert.Equal(t, "b-2", second.Items()[0].Predicates()[0].Val())
}
