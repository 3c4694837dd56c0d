package spies

import (
	"context"
	"fmt"
	"sync"
)

// LogRecord is one captured log call.
type LogRecord struct {
	Level string
	Msg   string
	Args  []any
}

// Attr returns the value logged for key, if any.
func (r LogRecord) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if fmt.Sprint(r.Args[i]) == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// LoggerSpy captures log calls. It implements eventstore.Logger and eventstore.ContextualLogger.
type LoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (l *LoggerSpy) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *LoggerSpy) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *LoggerSpy) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *LoggerSpy) Error(msg string, args ...any) { l.add("error", msg, args) }

func (l *LoggerSpy) DebugContext(_ context.Context, msg string, args ...any) { l.Debug(msg, args...) }
func (l *LoggerSpy) InfoContext(_ context.Context, msg string, args ...any)  { l.Info(msg, args...) }
func (l *LoggerSpy) WarnContext(_ context.Context, msg string, args ...any)  { l.Warn(msg, args...) }
func (l *LoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) { l.Error(msg, args...) }

func (l *LoggerSpy) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, LogRecord{Level: level, Msg: msg, Args: append([]any(nil), args...)})
}

// Records returns a copy of all captured log calls.
func (l *LoggerSpy) Records() []LogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]LogRecord, len(l.records))
	copy(records, l.records)

	return records
}

// HasRecord is true when a call with level and msg was captured.
func (l *LoggerSpy) HasRecord(level, msg string) bool {
	for _, record := range l.Records() {
		if record.Level == level && record.Msg == msg {
			return true
		}
	}

	return false
}
