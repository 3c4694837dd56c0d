package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "events"

	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventstore operation: "

	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrEventType        = "event_type"
	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrExpectedEvents   = "expected_events"
	logAttrRowsAffected     = "rows_affected"
	logAttrExpectedSequence = "expected_sequence"
	logAttrConsistency      = "consistency"

	operationQuery  = "query"
	operationAppend = "append"
)

// EventStore is the Postgres engine of the circulation event store. All events live in one
// append-only table, a dynamic event stream is whatever an eventstore.Filter selects from it.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

type queryResultRow struct {
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	sequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates an EventStore that serves eventually consistent reads from a replica.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a database/sql handle (lib/pq driver).
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on a sqlx handle.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns the events selected by filter in sequence order, together with the highest
// sequence number among them. That number is the expected version for a subsequent Append.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	tracing, ctx := es.startQueryTracing(ctx)
	metrics := es.startQueryMetrics(ctx)

	sqlQuery, buildErr := es.buildSelectQuery(filter)
	if buildErr != nil {
		es.logError(ctx, logMsgBuildSelectQueryFailed, buildErr)
		tracing.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return nil, 0, buildErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(ctx, sqlQuery, operationQuery, duration)

	if queryErr != nil {
		es.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		tracing.finishError(classifyError(ctx, queryErr, errorTypeDatabaseQuery), duration)
		metrics.recordError(classifyError(ctx, queryErr, errorTypeDatabaseQuery), duration)

		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	eventStream, maxSequenceNumber, scanErr := es.processQueryResults(ctx, rows)
	if scanErr != nil {
		tracing.finishError(errorTypeRowScan, duration)
		metrics.recordError(errorTypeRowScan, duration)

		return nil, 0, scanErr
	}

	es.logOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrEventCount, len(eventStream),
		logAttrDurationMS, toMilliseconds(duration),
		logAttrConsistency, eventstore.GetConsistencyLevel(ctx).String(),
	)
	tracing.finishQuerySuccess(eventStream, maxSequenceNumber, duration)
	metrics.recordQuerySuccess(eventStream, duration)

	return eventStream, maxSequenceNumber, nil
}

func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (es *EventStore) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	row := queryResultRow{}
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		if err := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata, &row.sequenceNumber); err != nil {
			es.logError(ctx, logMsgScanRowFailed, err)

			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, buildErr := eventstore.BuildStorableEvent(row.eventType, row.occurredAt, row.payload, row.metadata)
		if buildErr != nil {
			es.logError(ctx, logMsgBuildStorableEventFailed, buildErr, logAttrEventType, row.eventType)

			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		event.SequenceNumber = row.sequenceNumber
		eventStream = append(eventStream, event)
		maxSequenceNumber = row.sequenceNumber
	}

	if err := rows.Err(); err != nil {
		es.logError(ctx, logMsgScanRowFailed, err)

		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return eventStream, maxSequenceNumber, nil
}

// Append inserts all events atomically, but only if the stream selected by filter still has
// expectedMaxSequenceNumber as its highest sequence number. Otherwise nothing is written and
// eventstore.ErrConcurrencyConflict is returned.
//
// The insert runs in a transaction holding advisory locks on the filter's predicates, so
// concurrent appends to the same stream are checked one after the other.
//
// The filter must be the one used for the Query the decision was based on.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrEmptyEventsToAppend
	}

	tracing, ctx := es.startAppendTracing(ctx, events, expectedMaxSequenceNumber)
	metrics := es.startAppendMetrics(ctx)

	sqlQuery, buildErr := es.buildInsertQuery(events, filter, expectedMaxSequenceNumber)
	if buildErr != nil {
		es.logError(ctx, logMsgBuildInsertQueryFailed, buildErr, logAttrEventCount, len(events))
		tracing.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return buildErr
	}

	start := time.Now()
	result, execErr := es.db.ExecWithLocks(ctx, appendLockKeys(es.eventTableName, filter), sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(ctx, sqlQuery, operationAppend, duration)

	if execErr != nil {
		es.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		tracing.finishError(classifyError(ctx, execErr, errorTypeDatabaseExec), duration)
		metrics.recordError(classifyError(ctx, execErr, errorTypeDatabaseExec), duration)

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		es.logError(ctx, logMsgRowsAffectedFailed, rowsErr)
		tracing.finishError(errorTypeRowsAffected, duration)
		metrics.recordError(errorTypeRowsAffected, duration)

		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsErr)
	}

	if rowsAffected < int64(len(events)) {
		es.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(events),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		tracing.finishError(errorTypeConcurrencyConflict, duration)
		metrics.recordConcurrencyConflict(duration)

		return eventstore.ErrConcurrencyConflict
	}

	es.logOperation(
		ctx,
		logMsgEventsAppended,
		logAttrEventCount, len(events),
		logAttrDurationMS, toMilliseconds(duration),
	)
	tracing.finishAppendSuccess(rowsAffected, duration)
	metrics.recordAppendSuccess(len(events), duration)

	return nil
}
