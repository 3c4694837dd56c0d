package expireholds

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	commandType = "ExpireHolds"
)

// Command asks for the sweep of one book as of OccurredAt.
type Command struct {
	BookID     core.BookIDString
	OccurredAt core.OccurredAtTS
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(bookID core.BookIDString, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
