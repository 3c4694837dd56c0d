// Package observable decorates core command and query handlers with metrics, tracing and logging.
//
// The core handlers stay free of infrastructure concerns. A wrapper translates the HandlerResult
// and the returned error into a status, then records:
//   - commandhandler_handle_duration_seconds and commandhandler_handle_calls_total per status,
//   - dedicated counters for idempotent, rejected, canceled, timed out and conflicting commands,
//   - retry counters and delays taken from the HandlerResult,
//   - a commandhandler.handle or queryhandler.handle span,
//   - start, completion and failure log records.
//
// Business rejections (errors of the circulation taxonomy) are logged at warn level with status
// "rejected". Only infrastructure failures are logged as errors.
package observable
