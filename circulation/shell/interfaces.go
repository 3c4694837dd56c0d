package shell

import (
	"context"

	"github.com/schoollibrary/circulation/eventstore"
)

// QueriesEvents is the read side of an event store engine.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is what command handlers need from an event store engine.
// Both postgresengine.EventStore and memengine.EventStore implement it.
type EventStore interface {
	QueriesEvents

	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// Command is implemented by all circulation commands.
type Command interface {
	CommandType() string
}

// CoreCommandHandler processes a command with business logic only.
// Observability is added by wrapping it with observable.CommandWrapper.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query is implemented by all circulation queries.
type Query interface {
	QueryType() string
}

// QueryResult is a projection. GetSequenceNumber is the highest sequence number folded into it.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CoreQueryHandler processes a query with projection logic only.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
