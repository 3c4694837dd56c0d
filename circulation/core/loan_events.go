package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LoanOpenedEventType        = "LoanOpened"
	LoanRenewedEventType       = "LoanRenewed"
	LoanMarkedOverdueEventType = "LoanMarkedOverdue"
	LoanReturnedEventType      = "LoanReturned"
	LoanDeclaredLostEventType  = "LoanDeclaredLost"
)

// LoanOpened represents a copy handed out to the user of a picked up reservation.
type LoanOpened struct {
	EventType     EventTypeString
	LoanID        LoanIDString
	ReservationID ReservationIDString
	BookID        BookIDString
	UserID        UserIDString
	DueDate       time.Time
	OccurredAt    OccurredAtTS
}

// BuildLoanOpened creates a new LoanOpened event.
func BuildLoanOpened(
	loanID LoanIDString,
	reservationID ReservationIDString,
	bookID BookIDString,
	userID UserIDString,
	dueDate time.Time,
	occurredAt time.Time,
) LoanOpened {

	return LoanOpened{
		EventType:     LoanOpenedEventType,
		LoanID:        loanID,
		ReservationID: reservationID,
		BookID:        bookID,
		UserID:        userID,
		DueDate:       ToOccurredAt(dueDate),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e LoanOpened) IsEventType() string      { return LoanOpenedEventType }
func (e LoanOpened) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanOpened) IsErrorEvent() bool       { return false }
func (e LoanOpened) HasBookID() BookIDString  { return e.BookID }

// LoanRenewed represents an extension of the due date. RenewedCount is the count after this renewal.
type LoanRenewed struct {
	EventType    EventTypeString
	LoanID       LoanIDString
	BookID       BookIDString
	UserID       UserIDString
	RenewedCount int
	DueDate      time.Time
	OccurredAt   OccurredAtTS
}

// BuildLoanRenewed creates a new LoanRenewed event.
func BuildLoanRenewed(
	loanID LoanIDString,
	bookID BookIDString,
	userID UserIDString,
	renewedCount int,
	dueDate time.Time,
	occurredAt time.Time,
) LoanRenewed {

	return LoanRenewed{
		EventType:    LoanRenewedEventType,
		LoanID:       loanID,
		BookID:       bookID,
		UserID:       userID,
		RenewedCount: renewedCount,
		DueDate:      ToOccurredAt(dueDate),
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e LoanRenewed) IsEventType() string      { return LoanRenewedEventType }
func (e LoanRenewed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanRenewed) IsErrorEvent() bool       { return false }
func (e LoanRenewed) HasBookID() BookIDString  { return e.BookID }

// LoanMarkedOverdue is recorded by the sweep once an active loan passes its due date.
type LoanMarkedOverdue struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	UserID     UserIDString
	DueDate    time.Time
	OccurredAt OccurredAtTS
}

// BuildLoanMarkedOverdue creates a new LoanMarkedOverdue event.
func BuildLoanMarkedOverdue(
	loanID LoanIDString,
	bookID BookIDString,
	userID UserIDString,
	dueDate time.Time,
	occurredAt time.Time,
) LoanMarkedOverdue {

	return LoanMarkedOverdue{
		EventType:  LoanMarkedOverdueEventType,
		LoanID:     loanID,
		BookID:     bookID,
		UserID:     userID,
		DueDate:    ToOccurredAt(dueDate),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e LoanMarkedOverdue) IsEventType() string      { return LoanMarkedOverdueEventType }
func (e LoanMarkedOverdue) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanMarkedOverdue) IsErrorEvent() bool       { return false }
func (e LoanMarkedOverdue) HasBookID() BookIDString  { return e.BookID }

// LoanReturned represents the copy coming back. FineAmount is zero for returns on time.
type LoanReturned struct {
	EventType   EventTypeString
	LoanID      LoanIDString
	BookID      BookIDString
	UserID      UserIDString
	DueDate     time.Time
	DaysOverdue int
	FineAmount  decimal.Decimal
	OccurredAt  OccurredAtTS
}

// BuildLoanReturned creates a new LoanReturned event.
func BuildLoanReturned(
	loanID LoanIDString,
	bookID BookIDString,
	userID UserIDString,
	dueDate time.Time,
	daysOverdue int,
	fineAmount decimal.Decimal,
	occurredAt time.Time,
) LoanReturned {

	return LoanReturned{
		EventType:   LoanReturnedEventType,
		LoanID:      loanID,
		BookID:      bookID,
		UserID:      userID,
		DueDate:     ToOccurredAt(dueDate),
		DaysOverdue: daysOverdue,
		FineAmount:  fineAmount,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e LoanReturned) IsEventType() string      { return LoanReturnedEventType }
func (e LoanReturned) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanReturned) IsErrorEvent() bool       { return false }
func (e LoanReturned) HasBookID() BookIDString  { return e.BookID }

// LoanDeclaredLost represents a lent copy that will not come back. The title loses one copy.
type LoanDeclaredLost struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	UserID     UserIDString
	OccurredAt OccurredAtTS
}

// BuildLoanDeclaredLost creates a new LoanDeclaredLost event.
func BuildLoanDeclaredLost(
	loanID LoanIDString,
	bookID BookIDString,
	userID UserIDString,
	occurredAt time.Time,
) LoanDeclaredLost {

	return LoanDeclaredLost{
		EventType:  LoanDeclaredLostEventType,
		LoanID:     loanID,
		BookID:     bookID,
		UserID:     userID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e LoanDeclaredLost) IsEventType() string      { return LoanDeclaredLostEventType }
func (e LoanDeclaredLost) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanDeclaredLost) IsErrorEvent() bool       { return false }
func (e LoanDeclaredLost) HasBookID() BookIDString  { return e.BookID }
