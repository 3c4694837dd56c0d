package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent.
type DomainEvents = []DomainEvent

// DomainEvent is a business fact of the circulation domain.
type DomainEvent interface {
	// IsEventType returns the event type identifier used for storage and filtering.
	IsEventType() string

	// HasOccurredAt returns when the event occurred.
	HasOccurredAt() time.Time

	// IsErrorEvent is true for events recording a rejected command.
	IsErrorEvent() bool

	// HasBookID returns the book whose stream the event belongs to.
	HasBookID() BookIDString
}
