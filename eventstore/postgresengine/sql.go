package postgresengine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	jsoniter "github.com/json-iterator/go"

	"github.com/schoollibrary/circulation/eventstore"
)

const (
	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colSequenceNumber = "sequence_number"
	cteContext        = "context"
	cteVals           = "vals"
	dialectPostgres   = "postgres"
	aliasMaxSeq       = "max_seq"
	castText          = "?::text"
	castTimestamp     = "?::timestamp with time zone"
	castJsonb         = "?::jsonb"
	containsJsonb     = "payload @> ?::jsonb"
)

type sqlQueryString = string

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, whereErr := addWhereClause(filter, selectStmt)
	if whereErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, whereErr)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildInsertQuery renders
//
//	WITH context AS (SELECT MAX(sequence_number) AS max_seq FROM events WHERE <filter>),
//	     vals AS (SELECT ... UNION ALL SELECT ...)
//	INSERT INTO events (...) SELECT vals.* FROM context, vals WHERE COALESCE(max_seq, 0) = <expected>
//
// so that either all events are inserted or none.
func (es *EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	cteStmt, whereErr := addWhereClause(filter, cteStmt)
	if whereErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, whereErr)
	}

	var valuesStmt *goqu.SelectDataset
	for i, event := range events {
		stmt := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if i == 0 {
			valuesStmt = stmt
			continue
		}

		valuesStmt = valuesStmt.UnionAll(stmt)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					fmt.Sprintf("%s.%s", cteVals, colEventType),
					fmt.Sprintf("%s.%s", cteVals, colOccurredAt),
					fmt.Sprintf("%s.%s", cteVals, colPayload),
					fmt.Sprintf("%s.%s", cteVals, colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// appendLockKeys names the advisory locks an Append takes before its guarded insert. Appends
// whose filters share a predicate wait for each other. A filter item without predicates
// can match any payload, so it falls back to one lock for the whole table.
// Keys are sorted so that concurrent appends acquire them in the same order.
func appendLockKeys(tableName string, filter eventstore.Filter) []string {
	tableKey := tableName + ":*"
	if len(filter.Items()) == 0 {
		return []string{tableKey}
	}

	keys := make([]string, 0, len(filter.Items()))
	for _, item := range filter.Items() {
		if len(item.Predicates()) == 0 {
			return []string{tableKey}
		}

		for _, predicate := range item.Predicates() {
			keys = append(keys, fmt.Sprintf("%s:%s=%s", tableName, predicate.Key(), predicate.Val()))
		}
	}

	slices.Sort(keys)

	return slices.Compact(keys)
}

// addWhereClause ORs the filter items. Inside an item the event types are ORed and ANDed
// with the predicates, which are ORed or ANDed depending on the item. Predicates become
// JSONB containment checks so the GIN index on payload can serve them.
func addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if len(filter.Items()) == 0 {
		return selectStmt, nil
	}

	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpressions := make([]goqu.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(item.EventTypes()))
		}

		predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))
		for _, predicate := range item.Predicates() {
			containment, err := jsoniter.ConfigFastest.Marshal(map[string]string{predicate.Key(): predicate.Val()})
			if err != nil {
				return nil, err
			}

			predicateExpressions = append(predicateExpressions, goqu.L(containsJsonb, string(containment)))
		}

		if len(predicateExpressions) > 0 {
			var predicatesExpressionList exp.ExpressionList
			if item.AllPredicatesMustMatch() {
				predicatesExpressionList = goqu.And(predicateExpressions...)
			} else {
				predicatesExpressionList = goqu.Or(predicateExpressions...)
			}

			itemExpressions = append(itemExpressions, predicatesExpressionList)
		}

		itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
	}

	return selectStmt.Where(goqu.Or(itemsExpressions...)), nil
}
