// Package placereservation implements the reserve use case: a user joins the queue of a book.
//
// A new reservation is pending and gets the next priority. It is not promoted here,
// confirming it or any change in inventory does that.
package placereservation
