package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/readmodel"
)

type bookPath struct {
	BookID string `param:"bookId" json:"-" validate:"required"`
}

type reservationPath struct {
	ReservationID string `param:"reservationId" json:"-" validate:"required"`
}

type loanPath struct {
	LoanID string `param:"loanId" json:"-" validate:"required"`
}

type userPath struct {
	UserID string `param:"userId" json:"-" validate:"required"`
}

type bookListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=available reserved maintenance lost"`
}

// bind fills req from path, query and body and validates it. It writes the 400 itself.
func (s *server) bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid request")
	}

	if err := c.Validate(req); err != nil {
		return false, s.fail(c, err)
	}

	return true, nil
}

func (s *server) fail(c echo.Context, err error) error {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"path", c.Path(),
			"error", err.Error(),
		)
	}

	return c.JSON(status, body)
}

func (s *server) getAvailability(c echo.Context) error {
	var req bookPath
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	availability, err := s.service.GetAvailability(c.Request().Context(), req.BookID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, availabilityFrom(availability))
}

func (s *server) stockCopies(c echo.Context) error {
	var req stockCopiesRequest
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	availability, err := s.service.StockCopies(c.Request().Context(), req.BookID, req.Title, req.Copies)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, availabilityFrom(availability))
}

func (s *server) withdrawCopies(c echo.Context) error {
	var req withdrawCopiesRequest
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	availability, err := s.service.WithdrawCopies(c.Request().Context(), req.BookID, req.Copies, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, availabilityFrom(availability))
}

func (s *server) listBooks(c echo.Context) error {
	var req bookListQuery
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	books, err := s.catalogue.Books(c.Request().Context(), req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	if books == nil {
		books = []readmodel.Book{}
	}

	return c.JSON(http.StatusOK, listResponse[readmodel.Book]{Data: books, Count: len(books)})
}

func (s *server) reserve(c echo.Context) error {
	var req reserveRequest
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	reservation, err := s.service.Reserve(c.Request().Context(), req.UserID, req.BookID, req.Notes)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, reservationFrom(reservation))
}

func (s *server) listReservations(c echo.Context) error {
	var req reservationStatusQuery
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	all, err := s.service.GetAllReservations(c.Request().Context(), core.ReservationStatus(req.Status))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, reservationsFrom(all.Reservations))
}

func (s *server) confirmReservation(c echo.Context) error {
	var req reservationPath
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	reservation, err := s.service.ConfirmReservation(c.Request().Context(), req.ReservationID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, reservationFrom(reservation))
}

func (s *server) cancelReservation(c echo.Context) error {
	var req cancelRequest
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	reservation, err := s.service.CancelReservation(c.Request().Context(), req.ReservationID, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, reservationFrom(reservation))
}

func (s *server) pickupReservation(c echo.Context) error {
	var req reservationPath
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	pickup, err := s.service.PickupReservation(c.Request().Context(), req.ReservationID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, pickupResponse{
		Reservation: reservationFrom(pickup.Reservation),
		Loan:        loanFrom(pickup.Loan),
	})
}

func (s *server) returnBook(c echo.Context) error {
	return s.loanTransition(c, s.service.ReturnBook)
}

func (s *server) renewBook(c echo.Context) error {
	return s.loanTransition(c, s.service.RenewBook)
}

func (s *server) declareLoanLost(c echo.Context) error {
	return s.loanTransition(c, s.service.DeclareLoanLost)
}

func (s *server) loanTransition(
	c echo.Context,
	transition func(ctx context.Context, loanID core.LoanIDString) (core.Loan, error),
) error {

	var req loanPath
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	loan, err := transition(c.Request().Context(), req.LoanID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, loanFrom(loan))
}

func (s *server) userReservations(c echo.Context) error {
	var req userPath
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	reservations, err := s.service.GetUserReservations(c.Request().Context(), req.UserID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, reservationsFrom(reservations.Reservations))
}

func (s *server) userLoans(c echo.Context) error {
	var req userLoansQuery
	if ok, err := s.bind(c, &req); !ok {
		return err
	}

	loans, err := s.service.GetUserLoans(c.Request().Context(), req.UserID, req.OpenOnly)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, loansFrom(loans.Loans))
}
