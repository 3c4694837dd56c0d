package core

import (
	"time"
)

const (
	ReservationPlacedEventType         = "ReservationPlaced"
	ReservationConfirmedEventType      = "ReservationConfirmed"
	ReservationReadyForPickupEventType = "ReservationReadyForPickup"
	ReservationCancelledEventType      = "ReservationCancelled"
	ReservationExpiredEventType        = "ReservationExpired"
	ReservationPickedUpEventType       = "ReservationPickedUp"
)

// ReservationPlaced represents a user joining the queue of a book.
type ReservationPlaced struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	UserID        UserIDString
	Notes         string
	OccurredAt    OccurredAtTS
}

// BuildReservationPlaced creates a new ReservationPlaced event.
func BuildReservationPlaced(
	reservationID ReservationIDString,
	bookID BookIDString,
	userID UserIDString,
	notes string,
	occurredAt time.Time,
) ReservationPlaced {

	return ReservationPlaced{
		EventType:     ReservationPlacedEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		UserID:        userID,
		Notes:         notes,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationPlaced) IsEventType() string      { return ReservationPlacedEventType }
func (e ReservationPlaced) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReservationPlaced) IsErrorEvent() bool       { return false }
func (e ReservationPlaced) HasBookID() BookIDString  { return e.BookID }

// ReservationConfirmed represents a librarian accepting a pending reservation.
type ReservationConfirmed struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	UserID        UserIDString
	OccurredAt    OccurredAtTS
}

// BuildReservationConfirmed creates a new ReservationConfirmed event.
func BuildReservationConfirmed(
	reservationID ReservationIDString,
	bookID BookIDString,
	userID UserIDString,
	occurredAt time.Time,
) ReservationConfirmed {

	return ReservationConfirmed{
		EventType:     ReservationConfirmedEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		UserID:        userID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationConfirmed) IsEventType() string      { return ReservationConfirmedEventType }
func (e ReservationConfirmed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReservationConfirmed) IsErrorEvent() bool       { return false }
func (e ReservationConfirmed) HasBookID() BookIDString  { return e.BookID }

// ReservationReadyForPickup represents the promotion of the queue head. One copy is held
// for the user until PickupDeadline.
type ReservationReadyForPickup struct {
	EventType      EventTypeString
	ReservationID  ReservationIDString
	BookID         BookIDString
	UserID         UserIDString
	PickupDeadline time.Time
	OccurredAt     OccurredAtTS
}

// BuildReservationReadyForPickup creates a new ReservationReadyForPickup event.
func BuildReservationReadyForPickup(
	reservationID ReservationIDString,
	bookID BookIDString,
	userID UserIDString,
	pickupDeadline time.Time,
	occurredAt time.Time,
) ReservationReadyForPickup {

	return ReservationReadyForPickup{
		EventType:      ReservationReadyForPickupEventType,
		ReservationID:  reservationID,
		BookID:         bookID,
		UserID:         userID,
		PickupDeadline: ToOccurredAt(pickupDeadline),
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

func (e ReservationReadyForPickup) IsEventType() string      { return ReservationReadyForPickupEventType }
func (e ReservationReadyForPickup) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReservationReadyForPickup) IsErrorEvent() bool       { return false }
func (e ReservationReadyForPickup) HasBookID() BookIDString  { return e.BookID }

// ReservationCancelled represents a reservation leaving the queue on request.
// CopyReleased is true when the reservation was holding a copy.
type ReservationCancelled struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	UserID        UserIDString
	Reason        string
	CopyReleased  bool
	OccurredAt    OccurredAtTS
}

// BuildReservationCancelled creates a new ReservationCancelled event.
func BuildReservationCancelled(
	reservationID ReservationIDString,
	bookID BookIDString,
	userID UserIDString,
	reason string,
	copyReleased bool,
	occurredAt time.Time,
) ReservationCancelled {

	return ReservationCancelled{
		EventType:     ReservationCancelledEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		UserID:        userID,
		Reason:        reason,
		CopyReleased:  copyReleased,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationCancelled) IsEventType() string      { return ReservationCancelledEventType }
func (e ReservationCancelled) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReservationCancelled) IsErrorEvent() bool       { return false }
func (e ReservationCancelled) HasBookID() BookIDString  { return e.BookID }

// ReservationExpired represents a held copy that was not picked up in time.
type ReservationExpired struct {
	EventType      EventTypeString
	ReservationID  ReservationIDString
	BookID         BookIDString
	UserID         UserIDString
	PickupDeadline time.Time
	OccurredAt     OccurredAtTS
}

// BuildReservationExpired creates a new ReservationExpired event.
func BuildReservationExpired(
	reservationID ReservationIDString,
	bookID BookIDString,
	userID UserIDString,
	pickupDeadline time.Time,
	occurredAt time.Time,
) ReservationExpired {

	return ReservationExpired{
		EventType:      ReservationExpiredEventType,
		ReservationID:  reservationID,
		BookID:         bookID,
		UserID:         userID,
		PickupDeadline: ToOccurredAt(pickupDeadline),
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

func (e ReservationExpired) IsEventType() string      { return ReservationExpiredEventType }
func (e ReservationExpired) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReservationExpired) IsErrorEvent() bool       { return false }
func (e ReservationExpired) HasBookID() BookIDString  { return e.BookID }

// ReservationPickedUp represents the user collecting the held copy. LoanID names the loan
// opened in the same decision.
type ReservationPickedUp struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	UserID        UserIDString
	LoanID        LoanIDString
	OccurredAt    OccurredAtTS
}

// BuildReservationPickedUp creates a new ReservationPickedUp event.
func BuildReservationPickedUp(
	reservationID ReservationIDString,
	bookID BookIDString,
	userID UserIDString,
	loanID LoanIDString,
	occurredAt time.Time,
) ReservationPickedUp {

	return ReservationPickedUp{
		EventType:     ReservationPickedUpEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		UserID:        userID,
		LoanID:        loanID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationPickedUp) IsEventType() string      { return ReservationPickedUpEventType }
func (e ReservationPickedUp) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReservationPickedUp) IsErrorEvent() bool       { return false }
func (e ReservationPickedUp) HasBookID() BookIDString  { return e.BookID }
