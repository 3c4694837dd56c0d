// Package core is the pure domain of the school library circulation engine.
//
// Everything that happens to a book is a DomainEvent carrying the BookID. Folding a book's
// events yields a BookState made of three parts:
//   - InventoryLedger: total and available copies
//   - ReservationQueue: the FIFO of waiting holds with dense 1-based priorities
//   - LoanTracker: open and closed loans with due dates, renewals and fines
//
// Decisions never touch storage. A Transition applies new events to a BookState and drains
// the queue while copies are available, so that every inventory change is followed by as
// many promotions to ready_for_pickup as the free copies allow.
//
// In hexagonal terms, this is the domain layer.
package core
