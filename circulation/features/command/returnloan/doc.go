// Package returnloan implements the return of a lent copy, including the late fee and the
// promotion of the next waiting reservation.
package returnloan
