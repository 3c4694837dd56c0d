package core

import (
	"slices"
)

// ReservationQueue holds the waiting reservations of one book in request order.
// A reservation's priority is its 1-based position, so priorities are dense by construction
// and removing an entry re-packs everything behind it.
type ReservationQueue struct {
	entries []ReservationIDString
}

func (q *ReservationQueue) Enqueue(reservationID ReservationIDString) {
	if slices.Contains(q.entries, reservationID) {
		return
	}

	q.entries = append(q.entries, reservationID)
}

// Remove reports whether the reservation was waiting.
func (q *ReservationQueue) Remove(reservationID ReservationIDString) bool {
	idx := slices.Index(q.entries, reservationID)
	if idx < 0 {
		return false
	}

	q.entries = slices.Delete(q.entries, idx, idx+1)

	return true
}

// Head returns the entry with priority 1.
func (q ReservationQueue) Head() (ReservationIDString, bool) {
	if len(q.entries) == 0 {
		return "", false
	}

	return q.entries[0], true
}

func (q ReservationQueue) Len() int {
	return len(q.entries)
}

// PriorityOf returns the 1-based rank, 0 when the reservation is not waiting.
func (q ReservationQueue) PriorityOf(reservationID ReservationIDString) int {
	return slices.Index(q.entries, reservationID) + 1
}

// Entries returns the waiting reservation ids, head first.
func (q ReservationQueue) Entries() []ReservationIDString {
	return slices.Clone(q.entries)
}
