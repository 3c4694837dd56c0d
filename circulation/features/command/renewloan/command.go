package renewloan

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	commandType = "RenewLoan"
)

// Command represents a user asking to keep a copy for another loan period.
type Command struct {
	LoanID     core.LoanIDString
	BookID     core.BookIDString
	OccurredAt core.OccurredAtTS
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(loanID core.LoanIDString, bookID core.BookIDString, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		BookID:     bookID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
