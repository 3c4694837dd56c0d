package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultLoanPeriod          = 14 * 24 * time.Hour
	DefaultPickupWindow        = 7 * 24 * time.Hour
	DefaultMaxRenewals         = 3
	DefaultQueueCapacityFactor = 2
)

// DefaultFinePerDay is the flat late fee per started day.
var DefaultFinePerDay = decimal.RequireFromString("0.50")

// Policy holds the circulation rules of one library.
type Policy struct {
	LoanPeriod          time.Duration
	PickupWindow        time.Duration
	MaxRenewals         int
	QueueCapacityFactor int
	FinePerDay          decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		LoanPeriod:          DefaultLoanPeriod,
		PickupWindow:        DefaultPickupWindow,
		MaxRenewals:         DefaultMaxRenewals,
		QueueCapacityFactor: DefaultQueueCapacityFactor,
		FinePerDay:          DefaultFinePerDay,
	}
}

// QueueCapacity is the maximum number of waiting reservations for a book with totalCopies copies.
func (p Policy) QueueCapacity(totalCopies int) int {
	return totalCopies * p.QueueCapacityFactor
}

// FineFor charges FinePerDay for every started day between dueDate and returnedAt.
// Returning on or before the due date costs nothing.
func (p Policy) FineFor(dueDate time.Time, returnedAt time.Time) (daysOverdue int, fine decimal.Decimal) {
	if !returnedAt.After(dueDate) {
		return 0, decimal.Zero
	}

	late := returnedAt.Sub(dueDate)
	daysOverdue = int(late / (24 * time.Hour))
	if late%(24*time.Hour) != 0 {
		daysOverdue++
	}

	return daysOverdue, p.FinePerDay.Mul(decimal.NewFromInt(int64(daysOverdue)))
}
