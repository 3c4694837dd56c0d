package memengine

import (
	"context"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/schoollibrary/circulation/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"

	logAttrEventCount       = "event_count"
	logAttrExpectedSequence = "expected_sequence"
	logAttrActualSequence   = "actual_sequence"
)

type storedEvent struct {
	event   eventstore.StorableEvent
	payload map[string]any
}

// EventStore keeps all events in a slice guarded by a RWMutex. Append holds the write lock
// for the check and the insert, which makes the compare-and-swap atomic.
type EventStore struct {
	mu     sync.RWMutex
	events []storedEvent
	logger eventstore.ContextualLogger
}

// Option configures an EventStore.
type Option func(*EventStore)

// WithContextualLogger logs query and append outcomes.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{}
	for _, option := range options {
		option(es)
	}

	return es
}

func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if !matches(filter, stored) {
			continue
		}

		eventStream = append(eventStream, cloneEvent(stored.event))
		maxSequenceNumber = stored.event.SequenceNumber
	}

	if es.logger != nil {
		es.logger.DebugContext(ctx, logMsgQueryCompleted, logAttrEventCount, len(eventStream))
	}

	return eventStream, maxSequenceNumber, nil
}

func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrEmptyEventsToAppend
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	toStore := make([]storedEvent, 0, len(events))
	for _, event := range events {
		payload := map[string]any{}
		if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &payload); err != nil {
			return eventstore.ErrInvalidPayloadJSON
		}

		toStore = append(toStore, storedEvent{event: cloneEvent(event), payload: payload})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	actualMaxSequenceNumber := eventstore.MaxSequenceNumberUint(0)
	for _, stored := range es.events {
		if matches(filter, stored) {
			actualMaxSequenceNumber = stored.event.SequenceNumber
		}
	}

	if actualMaxSequenceNumber != expectedMaxSequenceNumber {
		if es.logger != nil {
			es.logger.InfoContext(
				ctx,
				logMsgConcurrencyConflict,
				logAttrExpectedSequence, expectedMaxSequenceNumber,
				logAttrActualSequence, actualMaxSequenceNumber,
			)
		}

		return eventstore.ErrConcurrencyConflict
	}

	next := eventstore.MaxSequenceNumberUint(len(es.events))
	for i := range toStore {
		next++
		toStore[i].event.SequenceNumber = next
	}

	es.events = append(es.events, toStore...)

	if es.logger != nil {
		es.logger.DebugContext(ctx, logMsgEventsAppended, logAttrEventCount, len(toStore))
	}

	return nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

func matches(filter eventstore.Filter, stored storedEvent) bool {
	if len(filter.Items()) == 0 {
		return true
	}

	for _, item := range filter.Items() {
		if matchesItem(item, stored) {
			return true
		}
	}

	return false
}

func matchesItem(item eventstore.FilterItem, stored storedEvent) bool {
	if len(item.EventTypes()) > 0 && !slices.Contains(item.EventTypes(), stored.event.EventType) {
		return false
	}

	if len(item.Predicates()) == 0 {
		return true
	}

	if item.AllPredicatesMustMatch() {
		for _, predicate := range item.Predicates() {
			if !payloadContains(stored.payload, predicate) {
				return false
			}
		}

		return true
	}

	for _, predicate := range item.Predicates() {
		if payloadContains(stored.payload, predicate) {
			return true
		}
	}

	return false
}

// payloadContains mirrors the jsonb containment check of the Postgres engine for a top-level string field.
func payloadContains(payload map[string]any, predicate eventstore.FilterPredicate) bool {
	value, ok := payload[predicate.Key()].(string)

	return ok && value == predicate.Val()
}

func cloneEvent(event eventstore.StorableEvent) eventstore.StorableEvent {
	event.PayloadJSON = slices.Clone(event.PayloadJSON)
	event.MetadataJSON = slices.Clone(event.MetadataJSON)

	return event
}
