package core

type ReservationStatus string

const (
	ReservationStatusPending        ReservationStatus = "pending"
	ReservationStatusConfirmed      ReservationStatus = "confirmed"
	ReservationStatusReadyForPickup ReservationStatus = "ready_for_pickup"
	ReservationStatusPickedUp       ReservationStatus = "picked_up"
	ReservationStatusCancelled      ReservationStatus = "cancelled"
	ReservationStatusExpired        ReservationStatus = "expired"
)

// IsWaiting is true for statuses that hold a place in the queue.
func (s ReservationStatus) IsWaiting() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// IsOpen is true while the reservation still counts against the one-per-book rule.
func (s ReservationStatus) IsOpen() bool {
	return s.IsWaiting() || s == ReservationStatusReadyForPickup
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusReadyForPickup,
		ReservationStatusPickedUp, ReservationStatusCancelled, ReservationStatusExpired:
		return true
	default:
		return false
	}
}

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
	LoanStatusOverdue  LoanStatus = "overdue"
	LoanStatusLost     LoanStatus = "lost"
)

type BookStatus string

const (
	BookAvailable   BookStatus = "available"
	BookReserved    BookStatus = "reserved"
	BookMaintenance BookStatus = "maintenance"
	BookLost        BookStatus = "lost"
)

// WithdrawalReason tells why copies left the shelf.
type WithdrawalReason = string

const (
	WithdrawnForMaintenance WithdrawalReason = "maintenance"
	WithdrawnAsLost         WithdrawalReason = "lost"
)
