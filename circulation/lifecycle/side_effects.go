package lifecycle

import (
	"context"
	"time"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/notify"
	"github.com/schoollibrary/circulation/circulation/shell"
)

const (
	projectionTimeout = 5 * time.Second

	logMsgProjectionFailed = "read model projection failed"
	logAttrBookID          = "book_id"
	logAttrSequenceNumber  = "sequence_number"
)

// Publisher hands notifications to delivery without blocking. notify.Dispatcher implements it.
type Publisher interface {
	Publish(ctx context.Context, notifications ...notify.Notification)
}

// Projector writes the current state of a book into the read model. Writes carrying an older
// sequence number than the stored one must be ignored.
type Projector interface {
	ProjectBook(ctx context.Context, state *core.BookState, sequenceNumber uint, projectedAt time.Time) error
}

// afterTransition publishes notifications and starts the projection of the book.
// Neither can fail the transition.
func (s *Service) afterTransition(ctx context.Context, events core.DomainEvents, state *core.BookState, sequenceNumber uint) {
	if len(events) == 0 {
		return
	}

	if s.publisher != nil {
		if notifications := NotificationsFor(events, state.Title); len(notifications) > 0 {
			s.publisher.Publish(ctx, notifications...)
		}
	}

	if s.projector == nil {
		return
	}

	projectedAt := s.clock.Now()

	s.projections.Add(1)
	go func() {
		defer s.projections.Done()

		projectionCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), projectionTimeout)
		defer cancel()

		if err := s.projector.ProjectBook(projectionCtx, state, sequenceNumber, projectedAt); err != nil {
			shell.LogError(projectionCtx, nil, s.observability.ContextualLogger, logMsgProjectionFailed,
				logAttrBookID, state.BookID,
				logAttrSequenceNumber, sequenceNumber,
				shell.LogAttrError, err.Error(),
			)
		}
	}()
}

// Wait blocks until all started projections have finished.
func (s *Service) Wait() {
	s.projections.Wait()
}
