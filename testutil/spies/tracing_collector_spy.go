package spies

import (
	"context"
	"maps"
	"sync"

	"github.com/schoollibrary/circulation/eventstore"
)

// SpanRecord is a span started through the TracingCollectorSpy.
type SpanRecord struct {
	Name        string
	StartAttrs  map[string]string
	Status      string
	FinishAttrs map[string]string
	Finished    bool
}

type spySpan struct {
	collector *TracingCollectorSpy
	index     int
}

func (s spySpan) SetStatus(status string) {
	s.collector.update(s.index, func(r *SpanRecord) { r.Status = status })
}

func (s spySpan) AddAttribute(key, value string) {
	s.collector.update(s.index, func(r *SpanRecord) {
		if r.FinishAttrs == nil {
			r.FinishAttrs = map[string]string{}
		}
		r.FinishAttrs[key] = value
	})
}

// TracingCollectorSpy captures spans. It implements eventstore.TracingCollector.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []SpanRecord
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (c *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.spans = append(c.spans, SpanRecord{Name: name, StartAttrs: maps.Clone(attrs)})

	return ctx, spySpan{collector: c, index: len(c.spans) - 1}
}

func (c *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(spySpan)
	if !ok {
		return
	}

	c.update(span.index, func(r *SpanRecord) {
		r.Status = status
		r.Finished = true
		if r.FinishAttrs == nil {
			r.FinishAttrs = map[string]string{}
		}
		maps.Copy(r.FinishAttrs, attrs)
	})
}

func (c *TracingCollectorSpy) update(index int, change func(r *SpanRecord)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	change(&c.spans[index])
}

// Spans returns a copy of all captured spans.
func (c *TracingCollectorSpy) Spans() []SpanRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	spans := make([]SpanRecord, len(c.spans))
	copy(spans, c.spans)

	return spans
}

// SpanNamed returns the first span with the given name.
func (c *TracingCollectorSpy) SpanNamed(name string) (SpanRecord, bool) {
	for _, span := range c.Spans() {
		if span.Name == name {
			return span, true
		}
	}

	return SpanRecord{}, false
}
