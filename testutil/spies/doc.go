// Package spies provides thread-safe test doubles for the logger, metrics and tracing
// interfaces of the eventstore package.
package spies
