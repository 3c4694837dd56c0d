package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/eventstore"
)

const (
	codeNotFound           = "not_found"
	codeInvariantViolation = "invariant_violation"
	codeCapacityExceeded   = "capacity_exceeded"
	codePolicyViolation    = "policy_violation"
	codeValidationFailed   = "validation_failed"
	codeBadRequest         = "bad_request"
	codeBusy               = "busy"
	codeInternal           = "internal"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor classifies err. Unknown errors are internal and their text is not exposed.
func statusFor(err error) (int, errorResponse) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest, errorResponse{Code: codeValidationFailed, Message: err.Error()}
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, errorResponse{Code: codeNotFound, Message: err.Error()}
	case errors.Is(err, core.ErrInvariantViolation):
		return http.StatusConflict, errorResponse{Code: codeInvariantViolation, Message: err.Error()}
	case errors.Is(err, core.ErrCapacityExceeded):
		return http.StatusConflict, errorResponse{Code: codeCapacityExceeded, Message: err.Error()}
	case errors.Is(err, core.ErrPolicyViolation):
		return http.StatusUnprocessableEntity, errorResponse{Code: codePolicyViolation, Message: err.Error()}
	case errors.Is(err, eventstore.ErrConcurrencyConflict), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errorResponse{Code: codeBusy, Message: "the book is busy, please retry"}
	default:
		return http.StatusInternalServerError, errorResponse{Code: codeInternal, Message: "internal error"}
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Code: codeBadRequest, Message: message})
}
