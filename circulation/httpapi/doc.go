// Package httpapi exposes the circulation service over HTTP with echo.
//
// All routes live under /v1. Business errors map to status codes by their kind:
// NotFound 404, InvariantViolation and CapacityExceeded 409, PolicyViolation 422.
// Invalid requests get 400 and a book whose stream stays contended gets 503.
package httpapi
