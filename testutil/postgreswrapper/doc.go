// Package postgreswrapper connects integration tests to a real Postgres.
//
// TEST_DATABASE_URL selects the database and ADAPTER_TYPE (pgx.pool, sql.db, sqlx.db) the
// driver the event store runs on. Tests are skipped when the database cannot be reached.
package postgreswrapper
