package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// LifecycleEventTypes are the event types that change the state of a book.
// Failure events are not among them, so they never move the consistency boundary.
func LifecycleEventTypes() []EventTypeString {
	return []EventTypeString{
		BookCopiesStockedEventType,
		BookCopiesWithdrawnEventType,
		ReservationPlacedEventType,
		ReservationConfirmedEventType,
		ReservationReadyForPickupEventType,
		ReservationCancelledEventType,
		ReservationExpiredEventType,
		ReservationPickedUpEventType,
		LoanOpenedEventType,
		LoanRenewedEventType,
		LoanMarkedOverdueEventType,
		LoanReturnedEventType,
		LoanDeclaredLostEventType,
	}
}

// Reservation is one hold request of a user for a book.
// Priority is only set while the reservation is waiting.
type Reservation struct {
	ReservationID   ReservationIDString
	BookID          BookIDString
	UserID          UserIDString
	Status          ReservationStatus
	Priority        int
	Notes           string
	RequestedAt     time.Time
	ConfirmedAt     *time.Time
	PickupDeadline  *time.Time
	CancelledReason string
	LoanID          LoanIDString
}

// BookState is everything known about one book, folded from its event stream.
type BookState struct {
	BookID BookIDString
	Title  string
	Ledger InventoryLedger
	Queue  ReservationQueue
	Loans  LoanTracker

	exists            bool
	overcommitted     bool
	lastRemovalReason WithdrawalReason
	reservations      map[ReservationIDString]*Reservation
	reservationOrder  []ReservationIDString
}

// ProjectBookState folds the history of one book. Events of other books are skipped.
func ProjectBookState(bookID BookIDString, history DomainEvents) *BookState {
	state := &BookState{BookID: bookID}
	for _, event := range history {
		if event.HasBookID() != bookID {
			continue
		}

		state.Apply(event)
	}

	return state
}

// ProjectBookStates folds a history spanning many books, in order of first appearance.
func ProjectBookStates(history DomainEvents) []*BookState {
	byID := make(map[BookIDString]*BookState)
	states := make([]*BookState, 0)

	for _, event := range history {
		if event.IsErrorEvent() {
			continue
		}

		state, ok := byID[event.HasBookID()]
		if !ok {
			state = &BookState{BookID: event.HasBookID()}
			byID[event.HasBookID()] = state
			states = append(states, state)
		}

		state.Apply(event)
	}

	return states
}

// Consistent reports ErrCopiesOvercommitted when the history promoted more holds than there were copies.
func (s *BookState) Consistent() error {
	if s.overcommitted {
		return ErrCopiesOvercommitted
	}

	return nil
}

// Exists is true once copies of the book were stocked.
func (s *BookState) Exists() bool {
	return s.exists
}

// Status is derived from the ledger. A book without any copy left is lost or in maintenance,
// depending on how the last copy went away.
func (s *BookState) Status() BookStatus {
	switch {
	case s.Ledger.Available > 0:
		return BookAvailable
	case s.Ledger.Total > 0:
		return BookReserved
	case s.lastRemovalReason == WithdrawnAsLost:
		return BookLost
	default:
		return BookMaintenance
	}
}

// Reservation returns the reservation with its live priority.
func (s *BookState) Reservation(reservationID ReservationIDString) (Reservation, bool) {
	reservation, ok := s.reservations[reservationID]
	if !ok {
		return Reservation{}, false
	}

	return s.withPriority(*reservation), true
}

// Reservations returns all reservations of the book in request order.
func (s *BookState) Reservations() []Reservation {
	all := make([]Reservation, 0, len(s.reservationOrder))
	for _, id := range s.reservationOrder {
		all = append(all, s.withPriority(*s.reservations[id]))
	}

	return all
}

// WaitingReservations returns the queue, head first.
func (s *BookState) WaitingReservations() []Reservation {
	waiting := make([]Reservation, 0, s.Queue.Len())
	for _, id := range s.Queue.Entries() {
		waiting = append(waiting, s.withPriority(*s.reservations[id]))
	}

	return waiting
}

// HasOpenReservation is true while userID has a pending, confirmed or ready reservation.
func (s *BookState) HasOpenReservation(userID UserIDString) bool {
	for _, id := range s.reservationOrder {
		if r := s.reservations[id]; r.UserID == userID && r.Status.IsOpen() {
			return true
		}
	}

	return false
}

// OthersWaiting is true when any user other than userID holds a place in the queue.
func (s *BookState) OthersWaiting(userID UserIDString) bool {
	for _, id := range s.Queue.Entries() {
		if s.reservations[id].UserID != userID {
			return true
		}
	}

	return false
}

// LapsedHolds returns the ready reservations whose pickup deadline lies before now.
func (s *BookState) LapsedHolds(now time.Time) []Reservation {
	lapsed := make([]Reservation, 0)
	for _, id := range s.reservationOrder {
		r := s.reservations[id]
		if r.Status == ReservationStatusReadyForPickup && r.PickupDeadline != nil && r.PickupDeadline.Before(now) {
			lapsed = append(lapsed, *r)
		}
	}

	return lapsed
}

// NeedsSweep is true when the expiry sweep has work to do on this book.
func (s *BookState) NeedsSweep(now time.Time) bool {
	return len(s.LapsedHolds(now)) > 0 || len(s.Loans.PastDue(now)) > 0
}

// QueueIsFull applies the capacity rule: at most QueueCapacityFactor waiting entries per copy.
func (s *BookState) QueueIsFull(policy Policy) bool {
	return s.Queue.Len() >= policy.QueueCapacity(s.Ledger.Total)
}

func (s *BookState) withPriority(r Reservation) Reservation {
	r.Priority = s.Queue.PriorityOf(r.ReservationID)

	return r
}

// Apply folds one event into the state. Unknown and failure events are ignored.
func (s *BookState) Apply(event DomainEvent) {
	switch e := event.(type) {
	case BookCopiesStocked:
		s.exists = true
		if e.Title != "" {
			s.Title = e.Title
		}
		s.Ledger.addCopies(e.Copies)

	case BookCopiesWithdrawn:
		s.Ledger.withdrawCopies(e.Copies)
		s.lastRemovalReason = e.Reason

	case ReservationPlaced:
		s.addReservation(Reservation{
			ReservationID: e.ReservationID,
			BookID:        e.BookID,
			UserID:        e.UserID,
			Status:        ReservationStatusPending,
			Notes:         e.Notes,
			RequestedAt:   e.OccurredAt,
		})

	case ReservationConfirmed:
		s.updateReservation(e.ReservationID, func(r *Reservation) {
			confirmedAt := e.OccurredAt
			r.Status = ReservationStatusConfirmed
			r.ConfirmedAt = &confirmedAt
		})

	case ReservationReadyForPickup:
		s.updateReservation(e.ReservationID, func(r *Reservation) {
			deadline := e.PickupDeadline
			r.Status = ReservationStatusReadyForPickup
			r.PickupDeadline = &deadline
			s.Queue.Remove(r.ReservationID)
			if err := s.Ledger.ReserveCopy(); err != nil {
				s.overcommitted = true
			}
		})

	case ReservationCancelled:
		s.updateReservation(e.ReservationID, func(r *Reservation) {
			r.Status = ReservationStatusCancelled
			r.CancelledReason = e.Reason
			s.Queue.Remove(r.ReservationID)
			if e.CopyReleased {
				s.Ledger.ReleaseCopy()
			}
		})

	case ReservationExpired:
		s.updateReservation(e.ReservationID, func(r *Reservation) {
			r.Status = ReservationStatusExpired
			s.Ledger.ReleaseCopy()
		})

	case ReservationPickedUp:
		s.updateReservation(e.ReservationID, func(r *Reservation) {
			r.Status = ReservationStatusPickedUp
			r.LoanID = e.LoanID
		})

	case LoanOpened:
		s.Loans.open(Loan{
			LoanID:        e.LoanID,
			ReservationID: e.ReservationID,
			BookID:        e.BookID,
			UserID:        e.UserID,
			Status:        LoanStatusActive,
			BorrowedAt:    e.OccurredAt,
			DueDate:       e.DueDate,
			FineAmount:    decimal.Zero,
		})

	case LoanRenewed:
		s.Loans.update(e.LoanID, func(loan *Loan) {
			loan.Status = LoanStatusActive
			loan.RenewedCount = e.RenewedCount
			loan.DueDate = e.DueDate
		})

	case LoanMarkedOverdue:
		s.Loans.update(e.LoanID, func(loan *Loan) {
			loan.Status = LoanStatusOverdue
		})

	case LoanReturned:
		if s.Loans.update(e.LoanID, func(loan *Loan) {
			returnedAt := e.OccurredAt
			loan.Status = LoanStatusReturned
			loan.ReturnedAt = &returnedAt
			loan.DaysOverdue = e.DaysOverdue
			loan.FineAmount = e.FineAmount
		}) {
			s.Ledger.ReleaseCopy()
		}

	case LoanDeclaredLost:
		if s.Loans.update(e.LoanID, func(loan *Loan) {
			loan.Status = LoanStatusLost
		}) {
			s.Ledger.loseLentCopy()
			s.lastRemovalReason = WithdrawnAsLost
		}
	}
}

func (s *BookState) addReservation(r Reservation) {
	if s.reservations == nil {
		s.reservations = make(map[ReservationIDString]*Reservation)
	}

	if _, exists := s.reservations[r.ReservationID]; exists {
		return
	}

	s.reservations[r.ReservationID] = &r
	s.reservationOrder = append(s.reservationOrder, r.ReservationID)
	s.Queue.Enqueue(r.ReservationID)
}

func (s *BookState) updateReservation(reservationID ReservationIDString, change func(r *Reservation)) {
	if r, ok := s.reservations[reservationID]; ok {
		change(r)
	}
}
