package lifecycle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/clock"
	"github.com/schoollibrary/circulation/circulation/lifecycle"
	"github.com/schoollibrary/circulation/testutil/spies"
)

type expirerStub struct {
	calls   atomic.Int32
	lastNow atomic.Value
	changed int
	err     error
}

func (e *expirerStub) ExpireOverdue(_ context.Context, now time.Time) (int, error) {
	e.calls.Add(1)
	e.lastNow.Store(now)

	return e.changed, e.err
}

func Test_Sweeper_SweepOnce_UsesClock(t *testing.T) {
	// arrange
	expirer := &expirerStub{changed: 2}
	logger := spies.NewLoggerSpy()
	sweeper, err := lifecycle.NewSweeper(expirer,
		lifecycle.WithSweepClock(clock.NewFixed(now)),
		lifecycle.WithSweepLogger(logger),
	)
	require.NoError(t, err)

	// act
	changed := sweeper.SweepOnce(context.Background())

	// assert
	assert.Equal(t, 2, changed)
	assert.Equal(t, now, expirer.lastNow.Load())
	assert.True(t, logger.HasRecord("info", "expiry sweep completed"))
}

func Test_Sweeper_LogsFailures(t *testing.T) {
	expirer := &expirerStub{err: errors.New("db down")}
	logger := spies.NewLoggerSpy()
	sweeper, err := lifecycle.NewSweeper(expirer, lifecycle.WithSweepLogger(logger))
	require.NoError(t, err)

	sweeper.SweepOnce(context.Background())

	assert.True(t, logger.HasRecord("error", "expiry sweep failed"))
}

func Test_Sweeper_RunsUntilCancelled(t *testing.T) {
	// arrange
	expirer := &expirerStub{}
	sweeper, err := lifecycle.NewSweeper(expirer, lifecycle.WithSweepInterval(5*time.Millisecond))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// act
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	// assert
	assert.Eventually(t, func() bool { return expirer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}

func Test_NewSweeper_RejectsNonPositiveInterval(t *testing.T) {
	_, err := lifecycle.NewSweeper(&expirerStub{}, lifecycle.WithSweepInterval(0))

	assert.ErrorIs(t, err, lifecycle.ErrInvalidSweepInterval)
}
