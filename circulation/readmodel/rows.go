package readmodel

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoollibrary/circulation/circulation/core"
)

type Book struct {
	BookID          string    `db:"book_id" json:"bookId"`
	Title           string    `db:"title" json:"title"`
	TotalCopies     int       `db:"total_copies" json:"totalCopies"`
	AvailableCopies int       `db:"available_copies" json:"availableCopies"`
	Status          string    `db:"status" json:"status"`
	QueueLength     int       `db:"queue_length" json:"queueLength"`
	SequenceNumber  int64     `db:"sequence_number" json:"sequenceNumber"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

type Reservation struct {
	ReservationID   string     `db:"reservation_id" json:"reservationId"`
	BookID          string     `db:"book_id" json:"bookId"`
	UserID          string     `db:"user_id" json:"userId"`
	Status          string     `db:"status" json:"status"`
	Priority        int        `db:"priority" json:"priority"`
	Notes           string     `db:"notes" json:"notes"`
	RequestedAt     time.Time  `db:"requested_at" json:"requestedAt"`
	ConfirmedAt     *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`
	PickupDeadline  *time.Time `db:"pickup_deadline" json:"pickupDeadline,omitempty"`
	CancelledReason string     `db:"cancelled_reason" json:"cancelledReason,omitempty"`
	LoanID          string     `db:"loan_id" json:"loanId,omitempty"`
}

type Borrowing struct {
	LoanID        string          `db:"loan_id" json:"loanId"`
	ReservationID string          `db:"reservation_id" json:"reservationId"`
	BookID        string          `db:"book_id" json:"bookId"`
	UserID        string          `db:"user_id" json:"userId"`
	Status        string          `db:"status" json:"status"`
	BorrowedAt    time.Time       `db:"borrowed_at" json:"borrowedAt"`
	DueDate       time.Time       `db:"due_date" json:"dueDate"`
	ReturnedAt    *time.Time      `db:"returned_at" json:"returnedAt,omitempty"`
	RenewedCount  int             `db:"renewed_count" json:"renewedCount"`
	DaysOverdue   int             `db:"days_overdue" json:"daysOverdue"`
	FineAmount    decimal.Decimal `db:"fine_amount" json:"fineAmount"`
}

func bookFrom(state *core.BookState, sequenceNumber uint, updatedAt time.Time) Book {
	return Book{
		BookID:          state.BookID,
		Title:           state.Title,
		TotalCopies:     state.Ledger.Total,
		AvailableCopies: state.Ledger.Available,
		Status:          string(state.Status()),
		QueueLength:     state.Queue.Len(),
		SequenceNumber:  int64(sequenceNumber),
		UpdatedAt:       updatedAt,
	}
}

func reservationsFrom(state *core.BookState) []Reservation {
	reservations := make([]Reservation, 0)
	for _, r := range state.Reservations() {
		reservations = append(reservations, Reservation{
			ReservationID:   r.ReservationID,
			BookID:          r.BookID,
			UserID:          r.UserID,
			Status:          string(r.Status),
			Priority:        r.Priority,
			Notes:           r.Notes,
			RequestedAt:     r.RequestedAt,
			ConfirmedAt:     r.ConfirmedAt,
			PickupDeadline:  r.PickupDeadline,
			CancelledReason: r.CancelledReason,
			LoanID:          r.LoanID,
		})
	}

	return reservations
}

func borrowingsFrom(state *core.BookState) []Borrowing {
	borrowings := make([]Borrowing, 0)
	for _, loan := range state.Loans.All() {
		borrowings = append(borrowings, Borrowing{
			LoanID:        loan.LoanID,
			ReservationID: loan.ReservationID,
			BookID:        loan.BookID,
			UserID:        loan.UserID,
			Status:        string(loan.Status),
			BorrowedAt:    loan.BorrowedAt,
			DueDate:       loan.DueDate,
			ReturnedAt:    loan.ReturnedAt,
			RenewedCount:  loan.RenewedCount,
			DaysOverdue:   loan.DaysOverdue,
			FineAmount:    loan.FineAmount,
		})
	}

	return borrowings
}
