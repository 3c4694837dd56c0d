// Package adapters lets the Postgres event store run on pgxpool.Pool, sql.DB or sqlx.DB.
//
// Every adapter can optionally be given a replica handle. Reads are routed to the replica
// only when the context asks for eventual consistency, so command handlers always read
// their own writes from the primary.
package adapters
