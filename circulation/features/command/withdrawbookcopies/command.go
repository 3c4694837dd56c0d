package withdrawbookcopies

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	commandType = "WithdrawBookCopies"
)

// Command represents shelved copies leaving circulation.
type Command struct {
	BookID     core.BookIDString
	Copies     int
	Reason     core.WithdrawalReason
	OccurredAt core.OccurredAtTS
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(bookID core.BookIDString, copies int, reason core.WithdrawalReason, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		Copies:     copies,
		Reason:     reason,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
