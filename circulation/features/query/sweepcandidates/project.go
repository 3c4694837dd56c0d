package sweepcandidates

import (
	"github.com/schoollibrary/circulation/circulation/core"
)

// ProjectSweepCandidates returns the books that need a sweep at query.Now.
func ProjectSweepCandidates(history core.DomainEvents, query Query, maxSequenceNumber uint) SweepCandidates {
	bookIDs := make([]core.BookIDString, 0)
	for _, state := range core.ProjectBookStates(history) {
		if state.NeedsSweep(query.Now) {
			bookIDs = append(bookIDs, state.BookID)
		}
	}

	return SweepCandidates{
		BookIDs:        bookIDs,
		SequenceNumber: maxSequenceNumber,
	}
}
