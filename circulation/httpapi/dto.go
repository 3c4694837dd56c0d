package httpapi

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/query/bookavailability"
)

type stockCopiesRequest struct {
	BookID string `param:"bookId" json:"-" validate:"required,max=64"`
	Title  string `json:"title" validate:"max=300"`
	Copies int    `json:"copies" validate:"required,gt=0"`
}

type withdrawCopiesRequest struct {
	BookID string `param:"bookId" json:"-" validate:"required,max=64"`
	Copies int    `json:"copies" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,oneof=maintenance lost"`
}

type reserveRequest struct {
	UserID string `json:"userId" validate:"required,max=64"`
	BookID string `json:"bookId" validate:"required,max=64"`
	Notes  string `json:"notes" validate:"max=500"`
}

type cancelRequest struct {
	ReservationID string `param:"reservationId" json:"-" validate:"required"`
	Reason        string `json:"reason" validate:"max=300"`
}

type reservationStatusQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending confirmed ready_for_pickup picked_up cancelled expired"`
}

type userLoansQuery struct {
	UserID   string `param:"userId" json:"-" validate:"required"`
	OpenOnly bool   `query:"openOnly"`
}

type availabilityResponse struct {
	BookID          string `json:"bookId"`
	Title           string `json:"title"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
	Status          string `json:"status"`
	QueueLength     int    `json:"queueLength"`
}

type reservationResponse struct {
	ReservationID   string     `json:"reservationId"`
	BookID          string     `json:"bookId"`
	UserID          string     `json:"userId"`
	Status          string     `json:"status"`
	Priority        int        `json:"priority,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	RequestedAt     time.Time  `json:"requestedAt"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	PickupDeadline  *time.Time `json:"pickupDeadline,omitempty"`
	CancelledReason string     `json:"cancelledReason,omitempty"`
	LoanID          string     `json:"loanId,omitempty"`
}

type loanResponse struct {
	LoanID        string     `json:"loanId"`
	ReservationID string     `json:"reservationId"`
	BookID        string     `json:"bookId"`
	UserID        string     `json:"userId"`
	Status        string     `json:"status"`
	BorrowedAt    time.Time  `json:"borrowedAt"`
	DueDate       time.Time  `json:"dueDate"`
	ReturnedAt    *time.Time `json:"returnedAt,omitempty"`
	RenewedCount  int        `json:"renewedCount"`
	DaysOverdue   int        `json:"daysOverdue"`
	FineAmount    string     `json:"fineAmount"`
}

type pickupResponse struct {
	Reservation reservationResponse `json:"reservation"`
	Loan        loanResponse        `json:"loan"`
}

type listResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

func availabilityFrom(a bookavailability.BookAvailability) availabilityResponse {
	return availabilityResponse{
		BookID:          a.BookID,
		Title:           a.Title,
		TotalCopies:     a.TotalCopies,
		AvailableCopies: a.AvailableCopies,
		Status:          string(a.Status),
		QueueLength:     a.QueueLength,
	}
}

func reservationFrom(r core.Reservation) reservationResponse {
	return reservationResponse{
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
	}
}

func loanFrom(l core.Loan) loanResponse {
	return loanResponse{
		LoanID:        l.LoanID,
		ReservationID: l.ReservationID,
		BookID:        l.BookID,
		UserID:        l.UserID,
		Status:        string(l.Status),
		BorrowedAt:    l.BorrowedAt,
		DueDate:       l.DueDate,
		ReturnedAt:    l.ReturnedAt,
		RenewedCount:  l.RenewedCount,
		DaysOverdue:   l.DaysOverdue,
		FineAmount:    l.FineAmount.StringFixed(2),
	}
}

func reservationsFrom(reservations []core.Reservation) listResponse[reservationResponse] {
	data := make([]reservationResponse, 0, len(reservations))
	for _, r := range reservations {
		data = append(data, reservationFrom(r))
	}

	return listResponse[reservationResponse]{Data: data, Count: len(data)}
}

func loansFrom(loans []core.Loan) listResponse[loanResponse] {
	data := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		data = append(data, loanFrom(l))
	}

	return listResponse[loanResponse]{Data: data, Count: len(data)}
}
