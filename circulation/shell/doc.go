// Package shell is the imperative shell around the circulation core.
//
// It maps domain events to and from the event store representation, adds event metadata,
// retries decisions that lost an optimistic concurrency race, and provides the shared
// observability helpers used by the command and query wrappers.
package shell
