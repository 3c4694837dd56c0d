// Package locate resolves the book a reservation or loan belongs to.
package locate
