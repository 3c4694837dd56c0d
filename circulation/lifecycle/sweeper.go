package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/schoollibrary/circulation/circulation/clock"
	"github.com/schoollibrary/circulation/circulation/shell"
)

const (
	defaultSweepInterval = time.Minute

	logMsgSweepStarted   = "expiry sweeper started"
	logMsgSweepStopped   = "expiry sweeper stopped"
	logMsgSweepCompleted = "expiry sweep completed"
	logMsgSweepFailed    = "expiry sweep failed"
	logAttrChanged       = "changed"
	logAttrInterval      = "interval"
)

// ErrInvalidSweepInterval is returned by NewSweeper for a non-positive interval.
var ErrInvalidSweepInterval = errors.New("sweep interval must be positive")

// Expirer is the part of Service the Sweeper drives.
type Expirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// Sweeper runs the expiry sweep on a fixed interval. A hold may lapse by up to one interval
// before it is expired.
type Sweeper struct {
	expirer  Expirer
	clock    clock.Clock
	interval time.Duration
	logger   shell.ContextualLogger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper) error

func WithSweepInterval(interval time.Duration) SweeperOption {
	return func(s *Sweeper) error {
		if interval <= 0 {
			return ErrInvalidSweepInterval
		}

		s.interval = interval

		return nil
	}
}

func WithSweepClock(c clock.Clock) SweeperOption {
	return func(s *Sweeper) error {
		s.clock = c
		return nil
	}
}

func WithSweepLogger(logger shell.ContextualLogger) SweeperOption {
	return func(s *Sweeper) error {
		s.logger = logger
		return nil
	}
}

func NewSweeper(expirer Expirer, opts ...SweeperOption) (*Sweeper, error) {
	sweeper := &Sweeper{
		expirer:  expirer,
		clock:    clock.NewSystem(),
		interval: defaultSweepInterval,
	}

	for _, opt := range opts {
		if err := opt(sweeper); err != nil {
			return nil, err
		}
	}

	return sweeper, nil
}

// Run sweeps once per interval until ctx is cancelled. A failed sweep is logged and retried
// on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	shell.LogInfo(ctx, nil, s.logger, logMsgSweepStarted, logAttrInterval, s.interval.String())

	for {
		select {
		case <-ctx.Done():
			shell.LogInfo(context.WithoutCancel(ctx), nil, s.logger, logMsgSweepStopped)
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep at the current clock time.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	changed, err := s.expirer.ExpireOverdue(ctx, s.clock.Now())
	if err != nil && ctx.Err() == nil {
		shell.LogError(ctx, nil, s.logger, logMsgSweepFailed,
			logAttrChanged, changed,
			shell.LogAttrError, err.Error(),
		)

		return changed
	}

	if changed > 0 {
		shell.LogInfo(ctx, nil, s.logger, logMsgSweepCompleted, logAttrChanged, changed)
	}

	return changed
}
