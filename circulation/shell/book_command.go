package shell

import (
	"context"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/eventstore"
)

// DecideFunc is a pure decision over the history of one book.
type DecideFunc func(history core.DomainEvents) core.DecisionResult

// HandleBookCommand runs Query -> Unmarshal -> Decide -> Append on the stream of bookID.
// A lost concurrency race re-runs the whole cycle on fresh history, so every decision is
// taken on the latest state of its book.
func HandleBookCommand(
	ctx context.Context,
	eventStore EventStore,
	bookID core.BookIDString,
	decide DecideFunc,
	retryOptions ...RetryOption,
) (HandlerResult, error) {

	var (
		isIdempotent bool
		appended     core.DomainEvents
		decidedOn    core.DomainEvents
		decidedAt    eventstore.MaxSequenceNumberUint
	)

	correlationID := newMessageID()

	retryMetrics, err := RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		execution, execErr := executeBookCommand(retryCtx, eventStore, bookID, decide, correlationID)
		isIdempotent = execution.idempotent
		appended = execution.appended
		decidedOn = execution.history
		decidedAt = execution.maxSequenceNumber

		return execErr
	}, retryOptions...)

	if err != nil {
		return NewErrorResult(retryMetrics), err
	}

	var result HandlerResult
	if isIdempotent {
		result = NewIdempotentResult(retryMetrics)
	} else {
		result = NewSuccessResult(retryMetrics, appended)
	}

	return result.withDecision(bookID, decidedOn, decidedAt), nil
}

type bookCommandExecution struct {
	idempotent        bool
	appended          core.DomainEvents
	history           core.DomainEvents
	maxSequenceNumber eventstore.MaxSequenceNumberUint
}

func executeBookCommand(
	ctx context.Context,
	eventStore EventStore,
	bookID core.BookIDString,
	decide DecideFunc,
	correlationID CorrelationID,
) (bookCommandExecution, error) {

	filter := BuildBookStreamFilter(bookID)
	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := eventStore.Query(ctx, filter)
	if err != nil {
		return bookCommandExecution{}, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return bookCommandExecution{}, err
	}

	execution := bookCommandExecution{history: history, maxSequenceNumber: maxSequenceNumber}
	result := decide(history)

	if !result.HasEventsToAppend() {
		execution.idempotent = true
		return execution, nil
	}

	toAppend, err := StorableEventsFrom(result.Events, correlationID)
	if err != nil {
		return bookCommandExecution{}, err
	}

	if appendErr := eventStore.Append(ctx, filter, maxSequenceNumber, toAppend...); appendErr != nil {
		return bookCommandExecution{}, appendErr
	}

	if businessErr := result.HasError(); businessErr != nil {
		return bookCommandExecution{}, businessErr
	}

	execution.appended = result.Events

	return execution, nil
}
