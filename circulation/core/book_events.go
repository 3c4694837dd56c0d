package core

import (
	"time"
)

const (
	BookCopiesStockedEventType   = "BookCopiesStocked"
	BookCopiesWithdrawnEventType = "BookCopiesWithdrawn"
)

// BookCopiesStocked records copies of a title being added to the shelf.
type BookCopiesStocked struct {
	EventType  EventTypeString
	BookID     BookIDString
	Title      string
	Copies     int
	OccurredAt OccurredAtTS
}

func BuildBookCopiesStocked(bookID BookIDString, title string, copies int, occurredAt time.Time) BookCopiesStocked {
	return BookCopiesStocked{
		EventType:  BookCopiesStockedEventType,
		BookID:     bookID,
		Title:      title,
		Copies:     copies,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookCopiesStocked) IsEventType() string {
	return BookCopiesStockedEventType
}

func (e BookCopiesStocked) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookCopiesStocked) IsErrorEvent() bool {
	return false
}

func (e BookCopiesStocked) HasBookID() BookIDString {
	return e.BookID
}

// BookCopiesWithdrawn records shelved copies leaving circulation for maintenance or as lost.
type BookCopiesWithdrawn struct {
	EventType  EventTypeString
	BookID     BookIDString
	Copies     int
	Reason     WithdrawalReason
	OccurredAt OccurredAtTS
}

func BuildBookCopiesWithdrawn(
	bookID BookIDString,
	copies int,
	reason WithdrawalReason,
	occurredAt time.Time,
) BookCopiesWithdrawn {

	return BookCopiesWithdrawn{
		EventType:  BookCopiesWithdrawnEventType,
		BookID:     bookID,
		Copies:     copies,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookCopiesWithdrawn) IsEventType() string {
	return BookCopiesWithdrawnEventType
}

func (e BookCopiesWithdrawn) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookCopiesWithdrawn) IsErrorEvent() bool {
	return false
}

func (e BookCopiesWithdrawn) HasBookID() BookIDString {
	return e.BookID
}
