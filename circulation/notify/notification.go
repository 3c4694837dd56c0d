package notify

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ReservationCreated   Type = "reservation_created"
	ReservationConfirmed Type = "reservation_confirmed"
	ReservationReady     Type = "reservation_ready"
	ReservationCancelled Type = "reservation_cancelled"
	ReservationExpired   Type = "reservation_expired"
	BookPickedUp         Type = "book_picked_up"
	LoanRenewed          Type = "loan_renewed"
	LoanOverdue          Type = "loan_overdue"
	BookReturned         Type = "book_returned"
	LoanLost             Type = "loan_lost"
)

// Notification is the outbound message for one user. Data holds the ids and values a
// channel needs to render links or amounts.
type Notification struct {
	ID        string
	UserID    string
	Type      Type
	Title     string
	Message   string
	Data      map[string]any
	CreatedAt time.Time
}

// New builds a Notification with a time-ordered id.
func New(userID string, notificationType Type, title, message string, data map[string]any, createdAt time.Time) Notification {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return Notification{
		ID:        id.String(),
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: createdAt.UTC(),
	}
}
