package locate

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// Location is the owning book of a reservation or loan, together with its user.
type Location struct {
	BookID         core.BookIDString
	UserID         core.UserIDString
	SequenceNumber uint
}

func (r Location) GetSequenceNumber() uint {
	return r.SequenceNumber
}
