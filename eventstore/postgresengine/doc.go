// Package postgresengine stores circulation events in a single Postgres table.
//
// The engine runs on pgx pools, database/sql (lib/pq) or sqlx. A Filter is translated into
// JSONB containment checks, and Append guards its insert with a CTE that compares the current
// highest sequence number of the filtered stream with the expected one.
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	es, _ := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithContextualLogger(logger))
//
//	events, maxSeq, _ := es.Query(ctx, filter)
//	err := es.Append(ctx, filter, maxSeq, newEvents...)
package postgresengine
