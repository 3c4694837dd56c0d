package core

import (
	"time"
)

const (
	StockingBookCopiesFailedEventType    = "StockingBookCopiesFailed"
	WithdrawingBookCopiesFailedEventType = "WithdrawingBookCopiesFailed"
	ReservingBookFailedEventType         = "ReservingBookFailed"
	ConfirmingReservationFailedEventType = "ConfirmingReservationFailed"
	CancelingReservationFailedEventType  = "CancelingReservationFailed"
	PickingUpReservationFailedEventType  = "PickingUpReservationFailed"
	ReturningLoanFailedEventType         = "ReturningLoanFailed"
	RenewingLoanFailedEventType          = "RenewingLoanFailed"
	DeclaringLoanLostFailedEventType     = "DeclaringLoanLostFailed"
)

// Failure is the common payload of all rejection events. EntityID names the reservation or
// loan the command targeted, or the book for inventory commands.
type Failure struct {
	EventType   EventTypeString
	BookID      BookIDString
	EntityID    string
	FailureInfo string
	OccurredAt  OccurredAtTS
}

func buildFailure(eventType, bookID, entityID, failureInfo string, occurredAt time.Time) Failure {
	return Failure{
		EventType:   eventType,
		BookID:      bookID,
		EntityID:    entityID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (f Failure) HasOccurredAt() time.Time { return f.OccurredAt }
func (f Failure) IsErrorEvent() bool       { return true }
func (f Failure) HasBookID() BookIDString  { return f.BookID }

// StockingBookCopiesFailed represents a rejected restock.
type StockingBookCopiesFailed struct{ Failure }

func BuildStockingBookCopiesFailed(bookID, failureInfo string, occurredAt time.Time) StockingBookCopiesFailed {
	return StockingBookCopiesFailed{buildFailure(StockingBookCopiesFailedEventType, bookID, bookID, failureInfo, occurredAt)}
}

func (e StockingBookCopiesFailed) IsEventType() string { return StockingBookCopiesFailedEventType }

// WithdrawingBookCopiesFailed represents a rejected withdrawal.
type WithdrawingBookCopiesFailed struct{ Failure }

func BuildWithdrawingBookCopiesFailed(bookID, failureInfo string, occurredAt time.Time) WithdrawingBookCopiesFailed {
	return WithdrawingBookCopiesFailed{buildFailure(WithdrawingBookCopiesFailedEventType, bookID, bookID, failureInfo, occurredAt)}
}

func (e WithdrawingBookCopiesFailed) IsEventType() string {
	return WithdrawingBookCopiesFailedEventType
}

// ReservingBookFailed represents a rejected reservation request.
type ReservingBookFailed struct{ Failure }

func BuildReservingBookFailed(bookID, reservationID, failureInfo string, occurredAt time.Time) ReservingBookFailed {
	return ReservingBookFailed{buildFailure(ReservingBookFailedEventType, bookID, reservationID, failureInfo, occurredAt)}
}

func (e ReservingBookFailed) IsEventType() string { return ReservingBookFailedEventType }

// ConfirmingReservationFailed represents a rejected confirmation.
type ConfirmingReservationFailed struct{ Failure }

func BuildConfirmingReservationFailed(bookID, reservationID, failureInfo string, occurredAt time.Time) ConfirmingReservationFailed {
	return ConfirmingReservationFailed{buildFailure(ConfirmingReservationFailedEventType, bookID, reservationID, failureInfo, occurredAt)}
}

func (e ConfirmingReservationFailed) IsEventType() string {
	return ConfirmingReservationFailedEventType
}

// CancelingReservationFailed represents a rejected cancellation.
type CancelingReservationFailed struct{ Failure }

func BuildCancelingReservationFailed(bookID, reservationID, failureInfo string, occurredAt time.Time) CancelingReservationFailed {
	return CancelingReservationFailed{buildFailure(CancelingReservationFailedEventType, bookID, reservationID, failureInfo, occurredAt)}
}

func (e CancelingReservationFailed) IsEventType() string { return CancelingReservationFailedEventType }

// PickingUpReservationFailed represents a rejected pickup.
type PickingUpReservationFailed struct{ Failure }

func BuildPickingUpReservationFailed(bookID, reservationID, failureInfo string, occurredAt time.Time) PickingUpReservationFailed {
	return PickingUpReservationFailed{buildFailure(PickingUpReservationFailedEventType, bookID, reservationID, failureInfo, occurredAt)}
}

func (e PickingUpReservationFailed) IsEventType() string { return PickingUpReservationFailedEventType }

// ReturningLoanFailed represents a rejected return.
type ReturningLoanFailed struct{ Failure }

func BuildReturningLoanFailed(bookID, loanID, failureInfo string, occurredAt time.Time) ReturningLoanFailed {
	return ReturningLoanFailed{buildFailure(ReturningLoanFailedEventType, bookID, loanID, failureInfo, occurredAt)}
}

func (e ReturningLoanFailed) IsEventType() string { return ReturningLoanFailedEventType }

// RenewingLoanFailed represents a rejected renewal.
type RenewingLoanFailed struct{ Failure }

func BuildRenewingLoanFailed(bookID, loanID, failureInfo string, occurredAt time.Time) RenewingLoanFailed {
	return RenewingLoanFailed{buildFailure(RenewingLoanFailedEventType, bookID, loanID, failureInfo, occurredAt)}
}

func (e RenewingLoanFailed) IsEventType() string { return RenewingLoanFailedEventType }

// DeclaringLoanLostFailed represents a rejected loss declaration.
type DeclaringLoanLostFailed struct{ Failure }

func BuildDeclaringLoanLostFailed(bookID, loanID, failureInfo string, occurredAt time.Time) DeclaringLoanLostFailed {
	return DeclaringLoanLostFailed{buildFailure(DeclaringLoanLostFailedEventType, bookID, loanID, failureInfo, occurredAt)}
}

func (e DeclaringLoanLostFailed) IsEventType() string { return DeclaringLoanLostFailedEventType }
