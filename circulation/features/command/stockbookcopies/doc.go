// Package stockbookcopies implements the librarian restock use case.
//
// Stocking adds copies to a title, creating it on first use. The new copies are handed
// to the reservation queue right away, as many as there are waiting reservations.
package stockbookcopies
