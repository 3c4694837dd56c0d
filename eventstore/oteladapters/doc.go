// Package oteladapters implements the eventstore observability interfaces on top of OpenTelemetry.
// The circulation service uses them for the event store engines and for the instrumented
// command and query handlers, so all telemetry ends up in one trace per request.
package oteladapters
