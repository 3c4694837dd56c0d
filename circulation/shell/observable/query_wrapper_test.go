package observable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/shell"
	"github.com/schoollibrary/circulation/circulation/shell/observable"
	"github.com/schoollibrary/circulation/testutil/spies"
)

func Test_QueryWrapper_Handle(t *testing.T) {
	testCases := []struct {
		name     string
		handler  stubQueryHandler
		status   string
		logLevel string
		logMsg   string
	}{
		{
			name:     "success",
			handler:  stubQueryHandler{result: testResult{Count: 2, SequenceNumber: 9}},
			status:   shell.StatusSuccess,
			logLevel: "info",
			logMsg:   shell.LogMsgQueryCompleted,
		},
		{
			name:     "not found",
			handler:  stubQueryHandler{err: core.ErrBookNotFound},
			status:   shell.StatusError,
			logLevel: "error",
			logMsg:   shell.LogMsgQueryFailed,
		},
		{
			name:     "timed out",
			handler:  stubQueryHandler{err: context.DeadlineExceeded},
			status:   shell.StatusTimeout,
			logLevel: "error",
			logMsg:   shell.LogMsgQueryFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			metrics := spies.NewMetricsCollectorSpy()
			tracing := spies.NewTracingCollectorSpy()
			logger := spies.NewLoggerSpy()

			wrapper, err := observable.NewQueryWrapper[testQuery, testResult](
				tc.handler,
				observable.WithQueryMetrics[testQuery, testResult](metrics),
				observable.WithQueryTracing[testQuery, testResult](tracing),
				observable.WithQueryContextualLogging[testQuery, testResult](logger),
			)
			require.NoError(t, err)

			// act
			result, err := wrapper.Handle(context.Background(), testQuery{})

			// assert
			assert.ErrorIs(t, err, tc.handler.err)
			assert.Equal(t, tc.handler.result, result)
			assert.True(t, metrics.HasCounter(shell.QueryHandlerCallsMetric, "query_type", "TestQuery", "status", tc.status))
			assert.True(t, metrics.HasDuration(shell.QueryHandlerDurationMetric, "query_type", "TestQuery"))
			assert.True(t, logger.HasRecord(tc.logLevel, tc.logMsg))

			span, found := tracing.SpanNamed(shell.SpanNameQueryHandle)
			require.True(t, found)
			assert.Equal(t, tc.status, span.Status)
		})
	}
}
