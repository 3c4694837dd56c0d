// Package config reads the process configuration from the environment and builds the
// Postgres connections and OpenTelemetry providers the service runs on.
//
// Three Postgres handles are supported, matching the event store adapters: a pgx pool,
// a database/sql handle on lib/pq and a sqlx handle on lib/pq.
package config
