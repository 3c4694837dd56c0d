package spies

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricRecord is one captured metrics call. Duration is set for durations, Value for values.
type MetricRecord struct {
	Kind     string
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

const (
	KindDuration = "duration"
	KindCounter  = "counter"
	KindValue    = "value"
)

// MetricsCollectorSpy captures metrics calls. It implements eventstore.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu      sync.Mutex
	records []MetricRecord
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.add(MetricRecord{Kind: KindDuration, Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.add(MetricRecord{Kind: KindCounter, Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.add(MetricRecord{Kind: KindValue, Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

func (s *MetricsCollectorSpy) add(record MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
}

// Records returns a copy of all captured calls.
func (s *MetricsCollectorSpy) Records() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]MetricRecord, len(s.records))
	copy(records, s.records)

	return records
}

// Count returns how many calls of kind for metric carried all the given labels.
// labels are key/value pairs.
func (s *MetricsCollectorSpy) Count(kind string, metric string, labels ...string) int {
	count := 0

	for _, record := range s.Records() {
		if record.Kind == kind && record.Metric == metric && hasLabels(record.Labels, labels) {
			count++
		}
	}

	return count
}

func (s *MetricsCollectorSpy) HasCounter(metric string, labels ...string) bool {
	return s.Count(KindCounter, metric, labels...) > 0
}

func (s *MetricsCollectorSpy) HasDuration(metric string, labels ...string) bool {
	return s.Count(KindDuration, metric, labels...) > 0
}

func hasLabels(actual map[string]string, expected []string) bool {
	for i := 0; i+1 < len(expected); i += 2 {
		if actual[expected[i]] != expected[i+1] {
			return false
		}
	}

	return true
}
