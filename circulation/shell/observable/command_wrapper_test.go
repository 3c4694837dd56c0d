package observable_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/shell"
	"github.com/schoollibrary/circulation/circulation/shell/observable"
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/testutil/spies"
)

type wrapperSpies struct {
	metrics *spies.MetricsCollectorSpy
	tracing *spies.TracingCollectorSpy
	logger  *spies.LoggerSpy
}

func givenWrappedCommandHandler(t *testing.T, handler *stubCommandHandler) (*observable.CommandWrapper[testCommand], wrapperSpies) {
	t.Helper()

	s := wrapperSpies{
		metrics: spies.NewMetricsCollectorSpy(),
		tracing: spies.NewTracingCollectorSpy(),
		logger:  spies.NewLoggerSpy(),
	}

	wrapper, err := observable.NewCommandWrapper[testCommand](
		handler,
		observable.WithCommandMetrics[testCommand](s.metrics),
		observable.WithCommandTracing[testCommand](s.tracing),
		observable.WithCommandContextualLogging[testCommand](s.logger),
	)
	require.NoError(t, err)

	return wrapper, s
}

func Test_CommandWrapper_Handle_Success(t *testing.T) {
	// arrange
	expected := shell.HandlerResult{RetryAttempts: 1}
	handler := &stubCommandHandler{result: expected}
	wrapper, s := givenWrappedCommandHandler(t, handler)
	command := testCommand{BookID: "b-1"}

	// act
	result, err := wrapper.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, expected, result)
	assert.Equal(t, []testCommand{command}, handler.calls)

	assert.True(t, s.metrics.HasCounter(shell.CommandHandlerCallsMetric, "command_type", "TestCommand", "status", "success"))
	assert.True(t, s.metrics.HasDuration(shell.CommandHandlerDurationMetric, "command_type", "TestCommand", "status", "success"))

	span, found := s.tracing.SpanNamed(shell.SpanNameCommandHandle)
	require.True(t, found)
	assert.True(t, span.Finished)
	assert.Equal(t, "success", span.Status)
	assert.Equal(t, "TestCommand", span.StartAttrs["command_type"])

	assert.True(t, s.logger.HasRecord("info", shell.LogMsgCommandStarted))
	assert.True(t, s.logger.HasRecord("info", shell.LogMsgCommandCompleted))
}

func Test_CommandWrapper_Handle_Statuses(t *testing.T) {
	testCases := []struct {
		name          string
		result        shell.HandlerResult
		err           error
		status        string
		statusCounter string
		logLevel      string
		logMsg        string
	}{
		{
			name:          "idempotent",
			result:        shell.HandlerResult{Idempotent: true, RetryAttempts: 1},
			status:        shell.StatusIdempotent,
			statusCounter: shell.CommandHandlerIdempotentMetric,
			logLevel:      "info",
			logMsg:        shell.LogMsgCommandCompleted,
		},
		{
			name:          "rejected by policy",
			err:           core.ErrRenewalLimitReached,
			status:        shell.StatusRejected,
			statusCounter: shell.CommandHandlerRejectedMetric,
			logLevel:      "warn",
			logMsg:        shell.LogMsgCommandRejected,
		},
		{
			name:          "canceled",
			err:           context.Canceled,
			status:        shell.StatusCanceled,
			statusCounter: shell.CommandHandlerCanceledMetric,
			logLevel:      "error",
			logMsg:        shell.LogMsgCommandFailed,
		},
		{
			name:          "timed out",
			err:           context.DeadlineExceeded,
			status:        shell.StatusTimeout,
			statusCounter: shell.CommandHandlerTimeoutMetric,
			logLevel:      "error",
			logMsg:        shell.LogMsgCommandFailed,
		},
		{
			name:          "concurrency conflict",
			err:           eventstore.ErrConcurrencyConflict,
			status:        shell.StatusConcurrencyConflict,
			statusCounter: shell.CommandHandlerConcurrencyConflictMetric,
			logLevel:      "error",
			logMsg:        shell.LogMsgCommandFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			wrapper, s := givenWrappedCommandHandler(t, &stubCommandHandler{result: tc.result, err: tc.err})

			// act
			_, err := wrapper.Handle(context.Background(), testCommand{})

			// assert
			assert.ErrorIs(t, err, tc.err)
			assert.True(t, s.metrics.HasCounter(shell.CommandHandlerCallsMetric, "status", tc.status))
			assert.True(t, s.metrics.HasCounter(tc.statusCounter, "command_type", "TestCommand"))
			assert.True(t, s.logger.HasRecord(tc.logLevel, tc.logMsg))

			span, found := s.tracing.SpanNamed(shell.SpanNameCommandHandle)
			require.True(t, found)
			assert.Equal(t, tc.status, span.Status)
		})
	}
}

func Test_CommandWrapper_Handle_UnknownErrorIsAnError(t *testing.T) {
	// arrange
	wrapper, s := givenWrappedCommandHandler(t, &stubCommandHandler{err: errors.New("boom")})

	// act
	_, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.EqualError(t, err, "boom")
	assert.True(t, s.metrics.HasCounter(shell.CommandHandlerCallsMetric, "status", shell.StatusError))

	span, found := s.tracing.SpanNamed(shell.SpanNameCommandHandle)
	require.True(t, found)
	assert.Equal(t, "boom", span.FinishAttrs["error"])
}

func Test_CommandWrapper_Handle_RecordsRetrySummary(t *testing.T) {
	// arrange
	handler := &stubCommandHandler{
		result: shell.HandlerResult{
			RetryAttempts:    3,
			TotalRetryDelay:  40 * time.Millisecond,
			LastErrorType:    "concurrency_conflict",
			RetriesExhausted: true,
		},
		err: eventstore.ErrConcurrencyConflict,
	}
	wrapper, s := givenWrappedCommandHandler(t, handler)

	// act
	_, _ = wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.True(t, s.metrics.HasCounter(shell.CommandHandlerRetriesMetric,
		"command_type", "TestCommand", "attempt_number", "2", "error_type", "concurrency_conflict"))
	assert.True(t, s.metrics.HasDuration(shell.CommandHandlerRetryDelayMetric, "command_type", "TestCommand"))
	assert.True(t, s.metrics.HasCounter(shell.CommandHandlerMaxRetriesReachedMetric, "command_type", "TestCommand"))
}

func Test_CommandWrapper_Handle_WorksWithoutCollectors(t *testing.T) {
	// arrange
	wrapper, err := observable.NewCommandWrapper[testCommand](&stubCommandHandler{})
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.NoError(t, err)
}
