// Package cancelreservation implements the cancellation of a reservation by its user or a librarian.
//
// Cancelling a reservation that holds a copy releases the copy and hands it to the next in line.
package cancelreservation
