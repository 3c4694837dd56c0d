package postgresengine

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/schoollibrary/circulation/eventstore"
)

const (
	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsQueried        = "eventstore_events_queried_total"
	metricEventsAppended       = "eventstore_events_appended_total"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"

	spanNameQuery  = "eventstore.query"
	spanNameAppend = "eventstore.append"

	spanAttrOperation    = "operation"
	spanAttrEventCount   = "event_count"
	spanAttrEventType    = "event_type"
	spanAttrExpectedSeq  = "expected_sequence"
	spanAttrMaxSequence  = "max_sequence"
	spanAttrRowsAffected = "rows_affected"
	spanAttrDurationMS   = "duration_ms"
	spanAttrErrorType    = "error_type"

	labelStatus = "status"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery          = "build_query"
	errorTypeDatabaseQuery       = "database_query"
	errorTypeDatabaseExec        = "database_exec"
	errorTypeRowScan             = "row_scan"
	errorTypeRowsAffected        = "rows_affected"
	errorTypeConcurrencyConflict = "concurrency_conflict"
	errorTypeCancelled           = "cancelled"
	errorTypeTimeout             = "timeout"
)

func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return strconv.FormatFloat(toMilliseconds(d), 'f', 2, 64)
}

// classifyError distinguishes cancelled and timed out operations from plain database failures.
func classifyError(ctx context.Context, err error, fallback string) string {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return errorTypeCancelled
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errorTypeTimeout
	default:
		return fallback
	}
}

/***** logging *****/

func (es *EventStore) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	case es.logger != nil:
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

func (es *EventStore) logOperation(ctx context.Context, action string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case es.logger != nil:
		es.logger.Info(logMsgOperation+action, args...)
	}
}

func (es *EventStore) logWarn(ctx context.Context, message string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.WarnContext(ctx, message, args...)
	case es.logger != nil:
		es.logger.Warn(message, args...)
	}
}

func (es *EventStore) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
	case es.logger != nil:
		es.logger.Error(message, allArgs...)
	}
}

/***** metrics *****/

type operationMetricsObserver struct {
	es        *EventStore
	ctx       context.Context
	operation string
}

func (es *EventStore) startQueryMetrics(ctx context.Context) *operationMetricsObserver {
	return &operationMetricsObserver{es: es, ctx: ctx, operation: operationQuery}
}

func (es *EventStore) startAppendMetrics(ctx context.Context) *operationMetricsObserver {
	return &operationMetricsObserver{es: es, ctx: ctx, operation: operationAppend}
}

func (o *operationMetricsObserver) recordQuerySuccess(eventStream eventstore.StorableEvents, duration time.Duration) {
	o.recordDuration(metricQueryDuration, duration, statusSuccess)
	o.recordValue(metricEventsQueried, float64(len(eventStream)), statusSuccess)
}

func (o *operationMetricsObserver) recordAppendSuccess(eventCount int, duration time.Duration) {
	o.recordDuration(metricAppendDuration, duration, statusSuccess)
	o.recordValue(metricEventsAppended, float64(eventCount), statusSuccess)
}

func (o *operationMetricsObserver) recordError(errorType string, duration time.Duration) {
	o.recordDuration(o.durationMetric(), duration, statusError)
	o.incrementCounter(metricDatabaseErrors, map[string]string{
		spanAttrOperation: o.operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
}

func (o *operationMetricsObserver) recordConcurrencyConflict(duration time.Duration) {
	o.recordDuration(o.durationMetric(), duration, statusError)
	o.incrementCounter(metricConcurrencyConflicts, map[string]string{
		spanAttrOperation: o.operation,
		"conflict_type":   "concurrency",
	})
}

func (o *operationMetricsObserver) durationMetric() string {
	if o.operation == operationAppend {
		return metricAppendDuration
	}

	return metricQueryDuration
}

func (o *operationMetricsObserver) recordDuration(metric string, duration time.Duration, status string) {
	collector := o.es.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: o.operation, labelStatus: status}
	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

func (o *operationMetricsObserver) recordValue(metric string, value float64, status string) {
	collector := o.es.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: o.operation, labelStatus: status}
	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(o.ctx, metric, value, labels)
		return
	}

	collector.RecordValue(metric, value, labels)
}

func (o *operationMetricsObserver) incrementCounter(metric string, labels map[string]string) {
	collector := o.es.metricsCollector
	if collector == nil {
		return
	}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(o.ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

/***** tracing *****/

type operationTracingObserver struct {
	collector eventstore.TracingCollector
	span      eventstore.SpanContext
}

func (es *EventStore) startQueryTracing(ctx context.Context) (*operationTracingObserver, context.Context) {
	return es.startTracing(ctx, spanNameQuery, map[string]string{spanAttrOperation: operationQuery})
}

func (es *EventStore) startAppendTracing(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (*operationTracingObserver, context.Context) {

	attrs := map[string]string{
		spanAttrOperation:   operationAppend,
		spanAttrEventCount:  strconv.Itoa(len(events)),
		spanAttrExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	}

	if len(events) > 0 {
		attrs[spanAttrEventType] = events[0].EventType
	}

	return es.startTracing(ctx, spanNameAppend, attrs)
}

func (es *EventStore) startTracing(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (*operationTracingObserver, context.Context) {

	if es.tracingCollector == nil {
		return &operationTracingObserver{}, ctx
	}

	spanCtx, span := es.tracingCollector.StartSpan(ctx, name, attrs)

	return &operationTracingObserver{collector: es.tracingCollector, span: span}, spanCtx
}

func (o *operationTracingObserver) finishQuerySuccess(
	eventStream eventstore.StorableEvents,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	duration time.Duration,
) {

	if o.span == nil {
		return
	}

	o.collector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrEventCount:  strconv.Itoa(len(eventStream)),
		spanAttrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10),
		spanAttrDurationMS:  formatMilliseconds(duration),
	})
}

func (o *operationTracingObserver) finishAppendSuccess(rowsAffected int64, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.collector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrRowsAffected: strconv.FormatInt(rowsAffected, 10),
		spanAttrDurationMS:   formatMilliseconds(duration),
	})
}

func (o *operationTracingObserver) finishError(errorType string, duration time.Duration) {
	if o.span == nil {
		return
	}

	attrs := map[string]string{spanAttrErrorType: errorType}
	if duration > 0 {
		attrs[spanAttrDurationMS] = formatMilliseconds(duration)
	}

	o.collector.FinishSpan(o.span, statusError, attrs)
}
