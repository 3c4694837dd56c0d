package shell

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
)

// HandlerResult represents the outcome of a command handler execution.
// It carries the business outcome and the appended events next to the retry metadata,
// so callers can react to what happened without querying again.
type HandlerResult struct {
	// Idempotent is true when the requested state already held and nothing was appended.
	Idempotent bool

	// Events are the success events appended by this execution, in order.
	Events core.DomainEvents

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay is the time spent sleeping between attempts.
	TotalRetryDelay time.Duration

	// LastErrorType is one of "none", "concurrency_conflict", "context_canceled",
	// "context_deadline_exceeded" or "other".
	LastErrorType string

	// RetriesExhausted is true when every attempt lost the concurrency race.
	RetriesExhausted bool

	bookID            core.BookIDString
	decidedOn         core.DomainEvents
	decidedOnSequence uint
}

// StateAfter folds the history the decision was based on together with the appended events.
// The sequence number is a lower bound of the one the appended events received, so a projection
// made from it never overwrites a newer one. ok is false when no decision was made.
func (r HandlerResult) StateAfter() (state *core.BookState, sequenceNumber uint, ok bool) {
	if r.bookID == "" {
		return nil, 0, false
	}

	history := make(core.DomainEvents, 0, len(r.decidedOn)+len(r.Events))
	history = append(history, r.decidedOn...)
	history = append(history, r.Events...)

	return core.ProjectBookState(r.bookID, history), r.decidedOnSequence + uint(len(r.Events)), true
}

func (r HandlerResult) withDecision(bookID core.BookIDString, history core.DomainEvents, sequenceNumber uint) HandlerResult {
	r.bookID = bookID
	r.decidedOn = history
	r.decidedOnSequence = sequenceNumber

	return r
}

// NewSuccessResult creates a HandlerResult for an execution that appended events.
func NewSuccessResult(retryMetrics RetryMetrics, events core.DomainEvents) HandlerResult {
	result := resultFrom(retryMetrics)
	result.Events = events

	return result
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := resultFrom(retryMetrics)
	result.Idempotent = true

	return result
}

// NewErrorResult creates a HandlerResult for failed operations, keeping the retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics)
}

func resultFrom(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
