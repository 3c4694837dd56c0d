// Package memengine is an in-process engine for the circulation event store.
//
// It honours the same contract as the Postgres engine: Query returns the filtered stream
// and its highest sequence number, Append writes all events or none and fails with
// eventstore.ErrConcurrencyConflict when the filtered stream moved. It backs the unit tests
// and the DB_ADAPTER=memory mode of the service.
package memengine
