package expireholds

import (
	"context"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/shell"
)

// CommandHandler runs Query -> Unmarshal -> Decide -> Append on the stream of the book.
type CommandHandler struct {
	eventStore   shell.EventStore
	policy       core.Policy
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithPolicy replaces core.DefaultPolicy.
func WithPolicy(policy core.Policy) Option {
	return func(h *CommandHandler) {
		h.policy = policy
	}
}

func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		policy:     core.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command, retrying on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	return shell.HandleBookCommand(ctx, h.eventStore, command.BookID, func(history core.DomainEvents) core.DecisionResult {
		return Decide(history, command, h.policy)
	}, h.retryOptions...)
}
