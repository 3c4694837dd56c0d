package httpapi_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/clock"
	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/httpapi"
	"github.com/schoollibrary/circulation/circulation/lifecycle"
	"github.com/schoollibrary/circulation/circulation/readmodel"
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/eventstore/memengine"
)

var now = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func givenAPI(t *testing.T) *echo.Echo {
	t.Helper()

	service, err := lifecycle.NewService(memengine.NewEventStore(), lifecycle.WithClock(clock.NewManual(now)))
	require.NoError(t, err)
	t.Cleanup(service.Wait)

	return httpapi.New(service, httpapi.WithLogger(quietLogger()))
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}

	return rec, decoded
}

func Test_Lifecycle_FromStockToReturn(t *testing.T) {
	// arrange
	e := givenAPI(t)

	rec, body := do(t, e, http.MethodPost, "/v1/books/b-1/copies", `{"title":"Momo","copies":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["availableCopies"])

	// act
	rec, body = do(t, e, http.MethodPost, "/v1/reservations", `{"userId":"u-1","bookId":"b-1","notes":"for class"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pending", body["status"])
	reservationID := body["reservationId"].(string)

	rec, body = do(t, e, http.MethodPost, "/v1/reservations/"+reservationID+"/confirm", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ready_for_pickup", body["status"])

	rec, body = do(t, e, http.MethodPost, "/v1/reservations/"+reservationID+"/pickup", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	loan := body["loan"].(map[string]any)
	assert.Equal(t, "active", loan["status"])
	assert.Equal(t, "picked_up", body["reservation"].(map[string]any)["status"])
	loanID := loan["loanId"].(string)

	rec, body = do(t, e, http.MethodPost, "/v1/loans/"+loanID+"/return", "")

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "returned", body["status"])
	assert.Equal(t, "0.00", body["fineAmount"])

	rec, body = do(t, e, http.MethodGet, "/v1/users/u-1/loans?openOnly=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["count"])

	rec, body = do(t, e, http.MethodGet, "/v1/books/b-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["availableCopies"])
	assert.Equal(t, "available", body["status"])
}

func Test_Reservations_CanBeListed(t *testing.T) {
	// arrange
	e := givenAPI(t)
	do(t, e, http.MethodPost, "/v1/books/b-1/copies", `{"title":"Momo","copies":1}`)
	do(t, e, http.MethodPost, "/v1/reservations", `{"userId":"u-1","bookId":"b-1"}`)
	do(t, e, http.MethodPost, "/v1/reservations", `{"userId":"u-2","bookId":"b-1"}`)

	// act
	allRec, all := do(t, e, http.MethodGet, "/v1/reservations?status=pending", "")
	userRec, user := do(t, e, http.MethodGet, "/v1/users/u-2/reservations", "")

	// assert
	require.Equal(t, http.StatusOK, allRec.Code)
	assert.EqualValues(t, 2, all["count"])
	require.Equal(t, http.StatusOK, userRec.Code)
	assert.EqualValues(t, 1, user["count"])
}

func Test_InvalidRequests_AreRejected(t *testing.T) {
	e := givenAPI(t)

	testCases := []struct {
		name   string
		method string
		target string
		body   string
		code   string
	}{
		{name: "reserve without user", method: http.MethodPost, target: "/v1/reservations", body: `{"bookId":"b-1"}`, code: "validation_failed"},
		{name: "notes too long", method: http.MethodPost, target: "/v1/reservations", body: `{"userId":"u-1","bookId":"b-1","notes":"` + strings.Repeat("x", 501) + `"}`, code: "validation_failed"},
		{name: "zero copies", method: http.MethodPost, target: "/v1/books/b-1/copies", body: `{"title":"Momo","copies":0}`, code: "validation_failed"},
		{name: "unknown withdrawal reason", method: http.MethodPost, target: "/v1/books/b-1/withdrawals", body: `{"copies":1,"reason":"stolen"}`, code: "validation_failed"},
		{name: "unknown status filter", method: http.MethodGet, target: "/v1/reservations?status=waiting", code: "validation_failed"},
		{name: "malformed json", method: http.MethodPost, target: "/v1/reservations", body: `{"userId":`, code: "bad_request"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			rec, body := do(t, e, tc.method, tc.target, tc.body)

			// assert
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func Test_UnknownIDs_AreNotFound(t *testing.T) {
	e := givenAPI(t)

	for _, target := range []string{
		"/v1/reservations/nope/confirm",
		"/v1/reservations/nope/pickup",
		"/v1/loans/nope/renew",
	} {
		// act
		rec, body := do(t, e, http.MethodPost, target, "")

		// assert
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "not_found", body["code"], target)
	}

	rec, _ := do(t, e, http.MethodGet, "/v1/books/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type failingService struct {
	httpapi.Service
	err error
}

func (s failingService) Reserve(context.Context, core.UserIDString, core.BookIDString, string) (core.Reservation, error) {
	return core.Reservation{}, s.err
}

func Test_Errors_MapToStatusCodes(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: core.ErrBookNotFound, status: http.StatusNotFound, code: "not_found"},
		{name: "invariant violation", err: core.ErrInvalidReservationState, status: http.StatusConflict, code: "invariant_violation"},
		{name: "capacity exceeded", err: core.ErrQueueFull, status: http.StatusConflict, code: "capacity_exceeded"},
		{name: "policy violation", err: core.ErrAlreadyPendingForBook, status: http.StatusUnprocessableEntity, code: "policy_violation"},
		{name: "contended stream", err: eventstore.ErrConcurrencyConflict, status: http.StatusServiceUnavailable, code: "busy"},
		{name: "anything else", err: errors.New("disk on fire"), status: http.StatusInternalServerError, code: "internal"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			e := httpapi.New(failingService{err: tc.err}, httpapi.WithLogger(quietLogger()))

			// act
			rec, body := do(t, e, http.MethodPost, "/v1/reservations", `{"userId":"u-1","bookId":"b-1"}`)

			// assert
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, body["code"])
			assert.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}

type fixedCatalogue struct {
	books  []readmodel.Book
	status string
}

func (c *fixedCatalogue) Books(_ context.Context, status string) ([]readmodel.Book, error) {
	c.status = status
	return c.books, nil
}

func Test_Books_AreListedFromCatalogue(t *testing.T) {
	// arrange
	catalogue := &fixedCatalogue{books: []readmodel.Book{{BookID: "b-1", Title: "Momo", Status: "available"}}}
	e := httpapi.New(failingService{}, httpapi.WithLogger(quietLogger()), httpapi.WithCatalogue(catalogue))

	// act
	rec, body := do(t, e, http.MethodGet, "/v1/books?status=available", "")

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["count"])
	assert.Equal(t, "available", catalogue.status)
}

func Test_Books_AreNotListedWithoutCatalogue(t *testing.T) {
	e := httpapi.New(failingService{}, httpapi.WithLogger(quietLogger()))

	rec, _ := do(t, e, http.MethodGet, "/v1/books", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_Responses_CarryRequestID(t *testing.T) {
	e := givenAPI(t)

	rec, body := do(t, e, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
