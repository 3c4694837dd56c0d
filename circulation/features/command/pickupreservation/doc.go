// Package pickupreservation implements the pickup of a held copy, which opens a loan.
package pickupreservation
