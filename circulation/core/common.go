package core

import (
	"time"
)

type EventTypeString = string

type BookIDString = string

type UserIDString = string

type ReservationIDString = string

type LoanIDString = string

type OccurredAtTS = time.Time

// ToOccurredAt normalizes to UTC with microsecond precision, which is what Postgres stores.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
