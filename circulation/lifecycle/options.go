package lifecycle

import (
	"github.com/schoollibrary/circulation/circulation/clock"
	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/shell"
)

// Observability holds the optional collectors every handler is wrapped with.
type Observability struct {
	MetricsCollector shell.MetricsCollector
	TracingCollector shell.TracingCollector
	ContextualLogger shell.ContextualLogger
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy replaces core.DefaultPolicy.
func WithPolicy(policy core.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithRetryOptions configures the concurrency retry of every command handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(s *Service) {
		s.retryOptions = opts
	}
}

// WithObservability wraps all handlers with metrics, tracing and logging.
func WithObservability(observability Observability) Option {
	return func(s *Service) {
		s.observability = observability
	}
}

// WithPublisher sets where notifications of transitions go.
func WithPublisher(publisher Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithProjector sets the read model that follows every transition.
func WithProjector(projector Projector) Option {
	return func(s *Service) {
		s.projector = projector
	}
}
