package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/eventstore"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

type domainEventDecoder func(payloadJSON []byte) (core.DomainEvent, error)

var domainEventDecoders = map[string]domainEventDecoder{
	core.BookCopiesStockedEventType:         unmarshalInto[core.BookCopiesStocked],
	core.BookCopiesWithdrawnEventType:       unmarshalInto[core.BookCopiesWithdrawn],
	core.ReservationPlacedEventType:         unmarshalInto[core.ReservationPlaced],
	core.ReservationConfirmedEventType:      unmarshalInto[core.ReservationConfirmed],
	core.ReservationReadyForPickupEventType: unmarshalInto[core.ReservationReadyForPickup],
	core.ReservationCancelledEventType:      unmarshalInto[core.ReservationCancelled],
	core.ReservationExpiredEventType:        unmarshalInto[core.ReservationExpired],
	core.ReservationPickedUpEventType:       unmarshalInto[core.ReservationPickedUp],
	core.LoanOpenedEventType:                unmarshalInto[core.LoanOpened],
	core.LoanRenewedEventType:               unmarshalInto[core.LoanRenewed],
	core.LoanMarkedOverdueEventType:         unmarshalInto[core.LoanMarkedOverdue],
	core.LoanReturnedEventType:              unmarshalInto[core.LoanReturned],
	core.LoanDeclaredLostEventType:          unmarshalInto[core.LoanDeclaredLost],

	core.StockingBookCopiesFailedEventType:    unmarshalInto[core.StockingBookCopiesFailed],
	core.WithdrawingBookCopiesFailedEventType: unmarshalInto[core.WithdrawingBookCopiesFailed],
	core.ReservingBookFailedEventType:         unmarshalInto[core.ReservingBookFailed],
	core.ConfirmingReservationFailedEventType: unmarshalInto[core.ConfirmingReservationFailed],
	core.CancelingReservationFailedEventType:  unmarshalInto[core.CancelingReservationFailed],
	core.PickingUpReservationFailedEventType:  unmarshalInto[core.PickingUpReservationFailed],
	core.ReturningLoanFailedEventType:         unmarshalInto[core.ReturningLoanFailed],
	core.RenewingLoanFailedEventType:          unmarshalInto[core.RenewingLoanFailed],
	core.DeclaringLoanLostFailedEventType:     unmarshalInto[core.DeclaringLoanLostFailed],
}

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	decode, ok := domainEventDecoders[storableEvent.EventType]
	if !ok {
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
	}

	return decode(storableEvent.PayloadJSON)
}

func unmarshalInto[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
