package eventstore

import "context"

// ConsistencyLevel tells an engine where a read may be served from.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. Command handlers need it to see their own writes
	// before deciding on a book.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica. Used by the read side, e.g. listing
	// a user's reservations.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key holding the ConsistencyLevel.
const ConsistencyLevelKey contextKey = "eventstore.consistency_level"

// WithStrongConsistency marks ctx for primary reads.
//
//	ctx = eventstore.WithStrongConsistency(ctx)
//	events, maxSeq, err := store.Query(ctx, bookStreamFilter)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency marks ctx as tolerant of replica lag.
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel returns the level stored in ctx, StrongConsistency when none is set.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
