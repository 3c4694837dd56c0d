// Package allreservations lists the reservations of every book, optionally narrowed to one status.
package allreservations
