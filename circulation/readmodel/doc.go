// Package readmodel keeps the books, reservations and borrowings tables in step with the
// event store. Writer replaces the rows of one book per projection; Reader serves listings
// that would otherwise need a scan of every book stream.
package readmodel
