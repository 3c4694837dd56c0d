package stockbookcopies_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/command/stockbookcopies"
	"github.com/schoollibrary/circulation/circulation/shell"
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/eventstore/memengine"
)

func Test_CommandHandler_AppendsToBookStream(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memengine.NewEventStore()
	handler := stockbookcopies.NewCommandHandler(es)

	// act
	result, err := handler.Handle(ctx, stockbookcopies.BuildCommand("b-1", "Momo", 2, now))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 1, result.RetryAttempts)
	require.Len(t, result.Events, 1)

	stored, maxSequence, err := es.Query(ctx, shell.BuildBookStreamFilter("b-1"))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(1), maxSequence)
	assert.Equal(t, core.BookCopiesStockedEventType, stored[0].EventType)
}

func Test_CommandHandler_RecordsFailureAndReturnsBusinessError(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memengine.NewEventStore()
	handler := stockbookcopies.NewCommandHandler(es)

	// act
	result, err := handler.Handle(ctx, stockbookcopies.BuildCommand("b-1", "Momo", -1, now))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidCopyCount)
	assert.Empty(t, result.Events)
	assert.Equal(t, 1, es.Len())

	stream, _, queryErr := es.Query(ctx, shell.BuildBookStreamFilter("b-1"))
	require.NoError(t, queryErr)
	assert.Empty(t, stream, "failure events stay out of the book stream")
}
