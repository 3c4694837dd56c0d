package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is one copy lent to a user.
type Loan struct {
	LoanID        LoanIDString
	ReservationID ReservationIDString
	BookID        BookIDString
	UserID        UserIDString
	Status        LoanStatus
	BorrowedAt    time.Time
	DueDate       time.Time
	RenewedCount  int
	FineAmount    decimal.Decimal
	DaysOverdue   int
	ReturnedAt    *time.Time
}

// IsOpen is true while the copy is out with the user.
func (l Loan) IsOpen() bool {
	return l.Status == LoanStatusActive || l.Status == LoanStatusOverdue
}

// LoanTracker holds the loans of one book in the order they were opened.
type LoanTracker struct {
	loans map[LoanIDString]*Loan
	order []LoanIDString
}

func (t LoanTracker) Get(loanID LoanIDString) (Loan, bool) {
	loan, ok := t.loans[loanID]
	if !ok {
		return Loan{}, false
	}

	return *loan, true
}

func (t LoanTracker) All() []Loan {
	all := make([]Loan, 0, len(t.order))
	for _, id := range t.order {
		all = append(all, *t.loans[id])
	}

	return all
}

// PastDue returns the active loans whose due date lies before now.
func (t LoanTracker) PastDue(now time.Time) []Loan {
	pastDue := make([]Loan, 0)
	for _, id := range t.order {
		if loan := t.loans[id]; loan.Status == LoanStatusActive && loan.DueDate.Before(now) {
			pastDue = append(pastDue, *loan)
		}
	}

	return pastDue
}

// CheckRenewal validates a renewal request for loanID. othersWaiting tells whether another
// user holds a place in the reservation queue.
func (t LoanTracker) CheckRenewal(loanID LoanIDString, othersWaiting bool, policy Policy) error {
	loan, ok := t.loans[loanID]
	switch {
	case !ok:
		return ErrLoanNotFound
	case loan.Status != LoanStatusActive:
		return ErrLoanNotActive
	case loan.RenewedCount >= policy.MaxRenewals:
		return ErrRenewalLimitReached
	case othersWaiting:
		return ErrHasPendingReservations
	default:
		return nil
	}
}

func (t *LoanTracker) open(loan Loan) {
	if t.loans == nil {
		t.loans = make(map[LoanIDString]*Loan)
	}

	if _, exists := t.loans[loan.LoanID]; exists {
		return
	}

	t.loans[loan.LoanID] = &loan
	t.order = append(t.order, loan.LoanID)
}

func (t *LoanTracker) update(loanID LoanIDString, change func(loan *Loan)) bool {
	loan, ok := t.loans[loanID]
	if !ok {
		return false
	}

	change(loan)

	return true
}
