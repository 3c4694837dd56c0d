package lifecycle

import (
	"fmt"
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/notify"
)

const dateLayout = "2006-01-02"

// NotificationsFor maps the success events of one transition to user notifications.
// Inventory events have no user and produce none. LoanOpened stands for the pickup, so the
// ReservationPickedUp beside it is skipped.
func NotificationsFor(events core.DomainEvents, title string) []notify.Notification {
	notifications := make([]notify.Notification, 0, len(events))

	for _, event := range events {
		if notification, ok := notificationFor(event, displayTitle(title)); ok {
			notifications = append(notifications, notification)
		}
	}

	return notifications
}

func notificationFor(event core.DomainEvent, title string) (notify.Notification, bool) {
	switch e := event.(type) {
	case core.ReservationPlaced:
		return notify.New(e.UserID, notify.ReservationCreated,
			"Reservation created",
			fmt.Sprintf("Your reservation for %s has been placed in the queue.", title),
			reservationData(e.BookID, e.ReservationID),
			e.OccurredAt,
		), true

	case core.ReservationConfirmed:
		return notify.New(e.UserID, notify.ReservationConfirmed,
			"Reservation confirmed",
			fmt.Sprintf("Your reservation for %s has been confirmed.", title),
			reservationData(e.BookID, e.ReservationID),
			e.OccurredAt,
		), true

	case core.ReservationReadyForPickup:
		data := reservationData(e.BookID, e.ReservationID)
		data["pickupDeadline"] = e.PickupDeadline.Format(time.RFC3339)

		return notify.New(e.UserID, notify.ReservationReady,
			"Book ready for pickup",
			fmt.Sprintf("%s is ready for you. Please pick it up by %s.", title, e.PickupDeadline.Format(dateLayout)),
			data,
			e.OccurredAt,
		), true

	case core.ReservationCancelled:
		data := reservationData(e.BookID, e.ReservationID)
		data["reason"] = e.Reason

		return notify.New(e.UserID, notify.ReservationCancelled,
			"Reservation cancelled",
			fmt.Sprintf("Your reservation for %s has been cancelled.", title),
			data,
			e.OccurredAt,
		), true

	case core.ReservationExpired:
		return notify.New(e.UserID, notify.ReservationExpired,
			"Reservation expired",
			fmt.Sprintf("Your hold on %s expired because it was not picked up by %s.", title, e.PickupDeadline.Format(dateLayout)),
			reservationData(e.BookID, e.ReservationID),
			e.OccurredAt,
		), true

	case core.LoanOpened:
		data := loanData(e.BookID, e.LoanID)
		data["reservationId"] = e.ReservationID
		data["dueDate"] = e.DueDate.Format(time.RFC3339)

		return notify.New(e.UserID, notify.BookPickedUp,
			"Book picked up",
			fmt.Sprintf("You borrowed %s. Please return it by %s.", title, e.DueDate.Format(dateLayout)),
			data,
			e.OccurredAt,
		), true

	case core.LoanRenewed:
		data := loanData(e.BookID, e.LoanID)
		data["dueDate"] = e.DueDate.Format(time.RFC3339)
		data["renewedCount"] = e.RenewedCount

		return notify.New(e.UserID, notify.LoanRenewed,
			"Loan renewed",
			fmt.Sprintf("Your loan of %s now ends on %s.", title, e.DueDate.Format(dateLayout)),
			data,
			e.OccurredAt,
		), true

	case core.LoanMarkedOverdue:
		data := loanData(e.BookID, e.LoanID)
		data["dueDate"] = e.DueDate.Format(time.RFC3339)

		return notify.New(e.UserID, notify.LoanOverdue,
			"Loan overdue",
			fmt.Sprintf("%s was due on %s. Please return it as soon as possible.", title, e.DueDate.Format(dateLayout)),
			data,
			e.OccurredAt,
		), true

	case core.LoanReturned:
		data := loanData(e.BookID, e.LoanID)
		data["daysOverdue"] = e.DaysOverdue
		data["fineAmount"] = e.FineAmount.StringFixed(2)

		message := fmt.Sprintf("Thank you for returning %s.", title)
		if e.FineAmount.IsPositive() {
			message = fmt.Sprintf("Thank you for returning %s. It was %d day(s) late, the fine is %s.",
				title, e.DaysOverdue, e.FineAmount.StringFixed(2))
		}

		return notify.New(e.UserID, notify.BookReturned, "Book returned", message, data, e.OccurredAt), true

	case core.LoanDeclaredLost:
		return notify.New(e.UserID, notify.LoanLost,
			"Book declared lost",
			fmt.Sprintf("Your copy of %s has been declared lost.", title),
			loanData(e.BookID, e.LoanID),
			e.OccurredAt,
		), true

	default:
		return notify.Notification{}, false
	}
}

func displayTitle(title string) string {
	if title == "" {
		return "your book"
	}

	return fmt.Sprintf("%q", title)
}

func reservationData(bookID core.BookIDString, reservationID core.ReservationIDString) map[string]any {
	return map[string]any{"bookId": bookID, "reservationId": reservationID}
}

func loanData(bookID core.BookIDString, loanID core.LoanIDString) map[string]any {
	return map[string]any{"bookId": bookID, "loanId": loanID}
}
