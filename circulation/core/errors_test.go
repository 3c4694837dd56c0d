package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoollibrary/circulation/circulation/core"
)

func Test_Kind_ClassifiesWrappedErrors(t *testing.T) {
	tests := []struct {
		err      error
		expected error
	}{
		{err: core.ErrReservationNotFound, expected: core.ErrNotFound},
		{err: fmt.Errorf("ReturningLoanFailed: %w", core.ErrLoanLost), expected: core.ErrInvariantViolation},
		{err: core.ErrQueueFull, expected: core.ErrCapacityExceeded},
		{err: errors.Join(errors.New("renew"), core.ErrRenewalLimitReached), expected: core.ErrPolicyViolation},
		{err: errors.New("disk on fire"), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, core.Kind(tt.err))
		})
	}
}
