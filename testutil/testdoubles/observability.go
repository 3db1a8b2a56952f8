package testdoubles

import (
	"sync"
	"time"
)

// LoggerSpy captures log calls for assertion.
type LoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

// LogRecord is one recorded log call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
}

// NewLoggerSpy creates a logger spy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (l *LoggerSpy) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *LoggerSpy) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *LoggerSpy) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *LoggerSpy) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *LoggerSpy) record(level string, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, LogRecord{Level: level, Message: msg, Args: args})
}

// Records returns a copy of all recorded log calls.
func (l *LoggerSpy) Records() []LogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]LogRecord(nil), l.records...)
}

// MessagesAt returns the messages logged at the given level.
func (l *LoggerSpy) MessagesAt(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string
	for _, r := range l.records {
		if r.Level == level {
			out = append(out, r.Message)
		}
	}

	return out
}

// MetricsSpy counts metric calls by name.
type MetricsSpy struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewMetricsSpy creates a metrics spy.
func NewMetricsSpy() *MetricsSpy {
	return &MetricsSpy{counters: make(map[string]int)}
}

// IncrementCounter implements the metrics contract.
func (m *MetricsSpy) IncrementCounter(metric string, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[metric]++
}

// RecordDuration implements the metrics contract. Durations are counted, not summed.
func (m *MetricsSpy) RecordDuration(metric string, _ time.Duration, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[metric]++
}

// RecordValue implements the metrics contract.
func (m *MetricsSpy) RecordValue(metric string, _ float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[metric]++
}

// CounterValue returns how often a counter was incremented.
func (m *MetricsSpy) CounterValue(metric string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.counters[metric]
}
