package fixtures

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/shell"
)

// GivenEvents appends events as one batch behind everything already stored.
func GivenEvents(t *testing.T, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()
	filter := shell.BuildAllBooksFilter()

	_, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err)

	storable, err := shell.StorableEventsFrom(events, uuid.NewString())
	require.NoError(t, err)

	require.NoError(t, es.Append(ctx, filter, maxSequenceNumber, storable...))
}
