package observable_test

import (
	"context"
	"sync"

	"github.com/schoollibrary/circulation/circulation/shell"
)

type testCommand struct {
	BookID string
}

func (testCommand) CommandType() string { return "TestCommand" }

type stubCommandHandler struct {
	mu     sync.Mutex
	result shell.HandlerResult
	err    error
	calls  []testCommand
}

func (h *stubCommandHandler) Handle(_ context.Context, command testCommand) (shell.HandlerResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls = append(h.calls, command)

	return h.result, h.err
}

type testQuery struct{}

func (testQuery) QueryType() string { return "TestQuery" }

type testResult struct {
	Count          int
	SequenceNumber uint
}

func (r testResult) GetSequenceNumber() uint { return r.SequenceNumber }

type stubQueryHandler struct {
	result testResult
	err    error
}

func (h stubQueryHandler) Handle(context.Context, testQuery) (testResult, error) {
	return h.result, h.err
}
