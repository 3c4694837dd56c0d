// Package confirmreservation implements the librarian confirmation of a pending reservation.
package confirmreservation
