// Package bookavailability answers how many copies of a book are on the shelf and how long its queue is.
package bookavailability
