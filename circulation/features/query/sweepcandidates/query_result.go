package sweepcandidates

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// SweepCandidates lists the books with lapsed holds or past-due active loans.
type SweepCandidates struct {
	BookIDs        []core.BookIDString
	SequenceNumber uint
}

func (r SweepCandidates) GetSequenceNumber() uint {
	return r.SequenceNumber
}
