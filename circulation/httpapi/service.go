package httpapi

import (
	"context"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/query/allreservations"
	"github.com/schoollibrary/circulation/circulation/features/query/bookavailability"
	"github.com/schoollibrary/circulation/circulation/features/query/userloans"
	"github.com/schoollibrary/circulation/circulation/features/query/userreservations"
	"github.com/schoollibrary/circulation/circulation/lifecycle"
	"github.com/schoollibrary/circulation/circulation/readmodel"
)

// Service is the part of lifecycle.Service the API serves.
type Service interface {
	StockCopies(ctx context.Context, bookID core.BookIDString, title string, copies int) (bookavailability.BookAvailability, error)
	WithdrawCopies(ctx context.Context, bookID core.BookIDString, copies int, reason core.WithdrawalReason) (bookavailability.BookAvailability, error)
	GetAvailability(ctx context.Context, bookID core.BookIDString) (bookavailability.BookAvailability, error)

	Reserve(ctx context.Context, userID core.UserIDString, bookID core.BookIDString, notes string) (core.Reservation, error)
	ConfirmReservation(ctx context.Context, reservationID core.ReservationIDString) (core.Reservation, error)
	CancelReservation(ctx context.Context, reservationID core.ReservationIDString, reason string) (core.Reservation, error)
	PickupReservation(ctx context.Context, reservationID core.ReservationIDString) (lifecycle.Pickup, error)

	ReturnBook(ctx context.Context, loanID core.LoanIDString) (core.Loan, error)
	RenewBook(ctx context.Context, loanID core.LoanIDString) (core.Loan, error)
	DeclareLoanLost(ctx context.Context, loanID core.LoanIDString) (core.Loan, error)

	GetUserReservations(ctx context.Context, userID core.UserIDString) (userreservations.UserReservations, error)
	GetAllReservations(ctx context.Context, status core.ReservationStatus) (allreservations.AllReservations, error)
	GetUserLoans(ctx context.Context, userID core.UserIDString, openOnly bool) (userloans.UserLoans, error)
}

// Catalogue lists books from the read model. readmodel.Reader implements it.
type Catalogue interface {
	Books(ctx context.Context, status string) ([]readmodel.Book, error)
}
