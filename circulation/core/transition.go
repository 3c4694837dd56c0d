package core

import (
	"time"
)

// Transition collects the events of one decision while applying them to the state,
// so later steps of the same decision see the effects of earlier ones.
type Transition struct {
	state  *BookState
	policy Policy
	now    time.Time
	events DomainEvents
}

func NewTransition(state *BookState, policy Policy, now time.Time) *Transition {
	return &Transition{
		state:  state,
		policy: policy,
		now:    now,
	}
}

// Record applies the event and keeps it for appending.
func (t *Transition) Record(event DomainEvent) {
	t.state.Apply(event)
	t.events = append(t.events, event)
}

// PromoteNext moves the queue head to ready_for_pickup, holding one copy until now + PickupWindow.
// It reports false when nobody is waiting, no copy is available or the copies are overcommitted.
func (t *Transition) PromoteNext() bool {
	if t.state.Ledger.Available <= 0 || t.state.Consistent() != nil {
		return false
	}

	head, ok := t.state.Queue.Head()
	if !ok {
		return false
	}

	reservation, _ := t.state.Reservation(head)
	t.Record(BuildReservationReadyForPickup(
		reservation.ReservationID,
		reservation.BookID,
		reservation.UserID,
		t.now.Add(t.policy.PickupWindow),
		t.now,
	))

	return true
}

// PromoteWhileAvailable drains the queue into the available copies and returns the number of promotions.
func (t *Transition) PromoteWhileAvailable() int {
	promoted := 0
	for t.PromoteNext() {
		promoted++
	}

	return promoted
}

func (t *Transition) Events() DomainEvents {
	return t.events
}

// Decision turns the collected events into a DecisionResult, idempotent when nothing was recorded.
func (t *Transition) Decision() DecisionResult {
	if len(t.events) == 0 {
		return IdempotentDecision()
	}

	return SuccessDecision(t.events...)
}
