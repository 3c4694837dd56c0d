package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/circulation/clock"
	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/command/cancelreservation"
	"github.com/schoollibrary/circulation/circulation/features/command/confirmreservation"
	"github.com/schoollibrary/circulation/circulation/features/command/declareloanlost"
	"github.com/schoollibrary/circulation/circulation/features/command/expireholds"
	"github.com/schoollibrary/circulation/circulation/features/command/pickupreservation"
	"github.com/schoollibrary/circulation/circulation/features/command/placereservation"
	"github.com/schoollibrary/circulation/circulation/features/command/renewloan"
	"github.com/schoollibrary/circulation/circulation/features/command/returnloan"
	"github.com/schoollibrary/circulation/circulation/features/command/stockbookcopies"
	"github.com/schoollibrary/circulation/circulation/features/command/withdrawbookcopies"
	"github.com/schoollibrary/circulation/circulation/features/query/allreservations"
	"github.com/schoollibrary/circulation/circulation/features/query/bookavailability"
	"github.com/schoollibrary/circulation/circulation/features/query/locate"
	"github.com/schoollibrary/circulation/circulation/features/query/sweepcandidates"
	"github.com/schoollibrary/circulation/circulation/features/query/userloans"
	"github.com/schoollibrary/circulation/circulation/features/query/userreservations"
	"github.com/schoollibrary/circulation/circulation/shell"
	"github.com/schoollibrary/circulation/eventstore"
)

const (
	logMsgSweepBookFailed = "expiry sweep failed for book"
	logMsgRereadFailed    = "re-reading book after commit failed, using decided state"
)

// ErrNilEventStore is returned by NewService without an event store.
var ErrNilEventStore = errors.New("event store must not be nil")

// Pickup is the outcome of handing a reserved copy to its user.
type Pickup struct {
	Reservation core.Reservation
	Loan        core.Loan
}

// Service is the circulation API. Operations on one book are serialized by the optimistic
// concurrency of its event stream, different books proceed in parallel.
type Service struct {
	eventStore    shell.EventStore
	handlers      *HandlerBundle
	clock         clock.Clock
	policy        core.Policy
	retryOptions  []shell.RetryOption
	observability Observability
	publisher     Publisher
	projector     Projector
	projections   sync.WaitGroup
}

func NewService(eventStore shell.EventStore, opts ...Option) (*Service, error) {
	if eventStore == nil {
		return nil, ErrNilEventStore
	}

	service := &Service{
		eventStore: eventStore,
		clock:      clock.NewSystem(),
		policy:     core.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(service)
	}

	handlers, err := NewHandlerBundle(eventStore, service.policy, service.observability, service.retryOptions...)
	if err != nil {
		return nil, err
	}

	service.handlers = handlers

	return service, nil
}

// Policy returns the circulation rules in force.
func (s *Service) Policy() core.Policy {
	return s.policy
}

// StockCopies adds copies of a title, creating the book on first stock.
func (s *Service) StockCopies(
	ctx context.Context,
	bookID core.BookIDString,
	title string,
	copies int,
) (bookavailability.BookAvailability, error) {

	if bookID == "" {
		return bookavailability.BookAvailability{}, core.ErrBookNotFound
	}

	result, err := s.handlers.stockBookCopies.Handle(ctx, stockbookcopies.BuildCommand(bookID, title, copies, s.clock.Now()))
	if err != nil {
		return bookavailability.BookAvailability{}, err
	}

	state, sequenceNumber, err := s.transitioned(ctx, bookID, result)
	if err != nil {
		return bookavailability.BookAvailability{}, err
	}

	return bookavailability.AvailabilityOf(state, sequenceNumber), nil
}

// WithdrawCopies takes copies off the shelf for maintenance or because they are lost.
func (s *Service) WithdrawCopies(
	ctx context.Context,
	bookID core.BookIDString,
	copies int,
	reason core.WithdrawalReason,
) (bookavailability.BookAvailability, error) {

	if bookID == "" {
		return bookavailability.BookAvailability{}, core.ErrBookNotFound
	}

	result, err := s.handlers.withdrawBookCopies.Handle(ctx, withdrawbookcopies.BuildCommand(bookID, copies, reason, s.clock.Now()))
	if err != nil {
		return bookavailability.BookAvailability{}, err
	}

	state, sequenceNumber, err := s.transitioned(ctx, bookID, result)
	if err != nil {
		return bookavailability.BookAvailability{}, err
	}

	return bookavailability.AvailabilityOf(state, sequenceNumber), nil
}

// Reserve enqueues a new pending reservation of userID for bookID.
func (s *Service) Reserve(
	ctx context.Context,
	userID core.UserIDString,
	bookID core.BookIDString,
	notes string,
) (core.Reservation, error) {

	if bookID == "" {
		return core.Reservation{}, core.ErrBookNotFound
	}

	reservationID := newID()

	result, err := s.handlers.placeReservation.Handle(
		ctx,
		placereservation.BuildCommand(reservationID, bookID, userID, notes, s.clock.Now()),
	)
	if err != nil {
		return core.Reservation{}, err
	}

	return s.reservationAfter(ctx, bookID, reservationID, result)
}

// ConfirmReservation confirms a pending reservation. The queue is drained while copies are available.
func (s *Service) ConfirmReservation(ctx context.Context, reservationID core.ReservationIDString) (core.Reservation, error) {
	location, err := s.locateReservation(ctx, reservationID)
	if err != nil {
		return core.Reservation{}, err
	}

	result, err := s.handlers.confirmReservation.Handle(
		ctx,
		confirmreservation.BuildCommand(reservationID, location.BookID, s.clock.Now()),
	)
	if err != nil {
		return core.Reservation{}, err
	}

	return s.reservationAfter(ctx, location.BookID, reservationID, result)
}

// CancelReservation cancels a waiting or ready reservation. A held copy goes to the next in line.
func (s *Service) CancelReservation(
	ctx context.Context,
	reservationID core.ReservationIDString,
	reason string,
) (core.Reservation, error) {

	location, err := s.locateReservation(ctx, reservationID)
	if err != nil {
		return core.Reservation{}, err
	}

	result, err := s.handlers.cancelReservation.Handle(
		ctx,
		cancelreservation.BuildCommand(reservationID, location.BookID, reason, s.clock.Now()),
	)
	if err != nil {
		return core.Reservation{}, err
	}

	return s.reservationAfter(ctx, location.BookID, reservationID, result)
}

// PickupReservation hands the held copy to the user and opens a loan.
func (s *Service) PickupReservation(ctx context.Context, reservationID core.ReservationIDString) (Pickup, error) {
	location, err := s.locateReservation(ctx, reservationID)
	if err != nil {
		return Pickup{}, err
	}

	result, err := s.handlers.pickupReservation.Handle(
		ctx,
		pickupreservation.BuildCommand(reservationID, location.BookID, newID(), s.clock.Now()),
	)
	if err != nil {
		return Pickup{}, err
	}

	state, _, err := s.transitioned(ctx, location.BookID, result)
	if err != nil {
		return Pickup{}, err
	}

	reservation, ok := state.Reservation(reservationID)
	if !ok {
		return Pickup{}, core.ErrReservationNotFound
	}

	loan, ok := state.Loans.Get(reservation.LoanID)
	if !ok {
		return Pickup{}, core.ErrLoanNotFound
	}

	return Pickup{Reservation: reservation, Loan: loan}, nil
}

// ReturnBook closes a loan, charges the fine for late returns and promotes the queue.
func (s *Service) ReturnBook(ctx context.Context, loanID core.LoanIDString) (core.Loan, error) {
	location, err := s.locateLoan(ctx, loanID)
	if err != nil {
		return core.Loan{}, err
	}

	result, err := s.handlers.returnLoan.Handle(ctx, returnloan.BuildCommand(loanID, location.BookID, s.clock.Now()))
	if err != nil {
		return core.Loan{}, err
	}

	return s.loanAfter(ctx, location.BookID, loanID, result)
}

// RenewBook extends the due date of an active loan.
func (s *Service) RenewBook(ctx context.Context, loanID core.LoanIDString) (core.Loan, error) {
	location, err := s.locateLoan(ctx, loanID)
	if err != nil {
		return core.Loan{}, err
	}

	result, err := s.handlers.renewLoan.Handle(ctx, renewloan.BuildCommand(loanID, location.BookID, s.clock.Now()))
	if err != nil {
		return core.Loan{}, err
	}

	return s.loanAfter(ctx, location.BookID, loanID, result)
}

// DeclareLoanLost writes off the copy of an open loan.
func (s *Service) DeclareLoanLost(ctx context.Context, loanID core.LoanIDString) (core.Loan, error) {
	location, err := s.locateLoan(ctx, loanID)
	if err != nil {
		return core.Loan{}, err
	}

	result, err := s.handlers.declareLoanLost.Handle(ctx, declareloanlost.BuildCommand(loanID, location.BookID, s.clock.Now()))
	if err != nil {
		return core.Loan{}, err
	}

	return s.loanAfter(ctx, location.BookID, loanID, result)
}

func (s *Service) GetAvailability(ctx context.Context, bookID core.BookIDString) (bookavailability.BookAvailability, error) {
	if bookID == "" {
		return bookavailability.BookAvailability{}, core.ErrBookNotFound
	}

	return s.handlers.bookAvailability.Handle(ctx, bookavailability.BuildQuery(bookID))
}

// GetUserReservations lists all reservations of a user with their live priorities.
func (s *Service) GetUserReservations(ctx context.Context, userID core.UserIDString) (userreservations.UserReservations, error) {
	if userID == "" {
		return userreservations.UserReservations{Reservations: []core.Reservation{}}, nil
	}

	return s.handlers.userReservations.Handle(ctx, userreservations.BuildQuery(userID))
}

// GetAllReservations lists the reservations of all books. An empty status lists every status.
func (s *Service) GetAllReservations(
	ctx context.Context,
	status core.ReservationStatus,
) (allreservations.AllReservations, error) {

	return s.handlers.allReservations.Handle(ctx, allreservations.BuildQuery(status))
}

func (s *Service) GetUserLoans(ctx context.Context, userID core.UserIDString, openOnly bool) (userloans.UserLoans, error) {
	if userID == "" {
		return userloans.UserLoans{Loans: []core.Loan{}}, nil
	}

	return s.handlers.userLoans.Handle(ctx, userloans.BuildQuery(userID, openOnly))
}

// ExpireOverdue expires lapsed holds and marks past-due loans on every book that needs it.
// It returns how many holds and loans changed. A failing book does not stop the others.
func (s *Service) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.handlers.sweepCandidates.Handle(ctx, sweepcandidates.BuildQuery(now))
	if err != nil {
		return 0, err
	}

	var (
		changed  int
		sweepErr error
	)

	for _, bookID := range candidates.BookIDs {
		if ctx.Err() != nil {
			return changed, errors.Join(sweepErr, ctx.Err())
		}

		result, handleErr := s.handlers.expireHolds.Handle(ctx, expireholds.BuildCommand(bookID, now))
		if handleErr != nil {
			shell.LogError(ctx, nil, s.observability.ContextualLogger, logMsgSweepBookFailed,
				logAttrBookID, bookID,
				shell.LogAttrError, handleErr.Error(),
			)
			sweepErr = errors.Join(sweepErr, handleErr)

			continue
		}

		changed += countSwept(result.Events)

		if _, _, err := s.transitioned(ctx, bookID, result); err != nil {
			sweepErr = errors.Join(sweepErr, err)
		}
	}

	return changed, sweepErr
}

func countSwept(events core.DomainEvents) int {
	count := 0

	for _, event := range events {
		switch event.(type) {
		case core.ReservationExpired, core.LoanMarkedOverdue:
			count++
		}
	}

	return count
}

func (s *Service) locateReservation(ctx context.Context, reservationID core.ReservationIDString) (locate.Location, error) {
	return s.handlers.locate.Handle(ctx, locate.BuildReservationQuery(reservationID))
}

func (s *Service) locateLoan(ctx context.Context, loanID core.LoanIDString) (locate.Location, error) {
	if loanID == "" {
		return locate.Location{}, core.ErrLoanNotFound
	}

	return s.handlers.locate.Handle(ctx, locate.BuildLoanQuery(loanID))
}

func (s *Service) reservationAfter(
	ctx context.Context,
	bookID core.BookIDString,
	reservationID core.ReservationIDString,
	result shell.HandlerResult,
) (core.Reservation, error) {

	state, _, err := s.transitioned(ctx, bookID, result)
	if err != nil {
		return core.Reservation{}, err
	}

	reservation, ok := state.Reservation(reservationID)
	if !ok {
		return core.Reservation{}, core.ErrReservationNotFound
	}

	return reservation, nil
}

func (s *Service) loanAfter(
	ctx context.Context,
	bookID core.BookIDString,
	loanID core.LoanIDString,
	result shell.HandlerResult,
) (core.Loan, error) {

	state, _, err := s.transitioned(ctx, bookID, result)
	if err != nil {
		return core.Loan{}, err
	}

	loan, ok := state.Loans.Get(loanID)
	if !ok {
		return core.Loan{}, core.ErrLoanNotFound
	}

	return loan, nil
}

// transitioned re-reads the book after a command and runs the side effects of its events.
// The command is committed at this point, so a failed re-read falls back to the state the
// decision produced instead of reporting the transition as failed.
func (s *Service) transitioned(
	ctx context.Context,
	bookID core.BookIDString,
	result shell.HandlerResult,
) (*core.BookState, uint, error) {

	state, sequenceNumber, err := s.bookState(ctx, bookID)
	if err != nil {
		decided, decidedSequence, ok := result.StateAfter()
		if !ok {
			return nil, 0, err
		}

		shell.LogWarn(ctx, nil, s.observability.ContextualLogger, logMsgRereadFailed,
			logAttrBookID, bookID,
			shell.LogAttrError, err.Error(),
		)
		state, sequenceNumber = decided, decidedSequence
	}

	s.afterTransition(ctx, result.Events, state, sequenceNumber)

	return state, sequenceNumber, nil
}

func (s *Service) bookState(ctx context.Context, bookID core.BookIDString) (*core.BookState, uint, error) {
	storableEvents, maxSequenceNumber, err := s.eventStore.Query(
		eventstore.WithStrongConsistency(ctx),
		shell.BuildBookStreamFilter(bookID),
	)
	if err != nil {
		return nil, 0, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return core.ProjectBookState(bookID, history), maxSequenceNumber, nil
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
