// Package lifecycle is the public API of the circulation engine.
//
// Service resolves the book that owns a reservation or loan, runs the instrumented command
// handler on that book's stream and returns the updated entity. Appended events are turned
// into user notifications and projected into the read model; neither side effect can fail
// or block a transition. Sweeper expires lapsed holds and marks overdue loans on an interval.
package lifecycle
