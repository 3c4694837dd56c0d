package stockbookcopies

import (
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
)

const (
	commandType = "StockBookCopies"
)

// Command represents the intent to put copies of a title on the shelf.
type Command struct {
	BookID     core.BookIDString
	Title      string
	Copies     int
	OccurredAt core.OccurredAtTS
}

func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID core.BookIDString, title string, copies int, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		Title:      title,
		Copies:     copies,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
