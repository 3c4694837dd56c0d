package userloans

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// UserLoans holds the loans of one user, oldest first.
type UserLoans struct {
	UserID         core.UserIDString
	Loans          []core.Loan
	Count          int
	SequenceNumber uint
}

func (r UserLoans) GetSequenceNumber() uint {
	return r.SequenceNumber
}
