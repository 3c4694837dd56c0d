package core

import (
	"fmt"
)

// DecisionResult is the outcome of a Decide function.
//
// Construct it only with IdempotentDecision, SuccessDecision or ErrorDecision.
type DecisionResult struct {
	Outcome string
	Events  DomainEvents
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision means the requested state already holds, nothing gets appended.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision carries the events to append atomically, in order.
func SuccessDecision(events ...DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Events:  events,
	}
}

// ErrorDecision carries a failure event for the audit trail and the business error to return.
// The error is prefixed with the failure event type and keeps err in its chain.
func ErrorDecision(event DomainEvent, err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Events:  DomainEvents{event},
		Err:     fmt.Errorf("%s: %w", event.IsEventType(), err),
	}
}

func (r DecisionResult) HasEventsToAppend() bool {
	return r.Outcome != idempotentOutcome && len(r.Events) > 0
}

func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the business error of an error decision, nil otherwise.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
