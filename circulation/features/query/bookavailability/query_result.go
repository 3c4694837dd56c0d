package bookavailability

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// BookAvailability is the books row of one title.
type BookAvailability struct {
	BookID          core.BookIDString
	Title           string
	TotalCopies     int
	AvailableCopies int
	Status          core.BookStatus
	QueueLength     int
	SequenceNumber  uint
}

func (r BookAvailability) GetSequenceNumber() uint {
	return r.SequenceNumber
}
