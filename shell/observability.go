package shell

import (
	"context"
	"fmt"
	"time"
)

// Logger interface for operational logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace
// correlation. It follows the same dependency-free pattern as MetricsCollector
// and TracingCollector, so any logging backend that supports context-based
// correlation can be plugged in.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting performance and operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished and
// updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for collecting distributed tracing information.
// Dependency-free so any tracing backend (OpenTelemetry, Jaeger, Zipkin, ...)
// can be integrated by implementing it.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// Metric names emitted by command handlers and background processes.
const (
	CommandHandlerRetriesMetric           = "circulation_command_retries_total"
	CommandHandlerRetryDelayMetric        = "circulation_command_retry_delay_seconds"
	CommandHandlerMaxRetriesReachedMetric = "circulation_command_retries_exhausted_total"
	SweeperProcessedMetric                = "circulation_sweep_processed_total"
	SweeperFailuresMetric                 = "circulation_sweep_failures_total"
	CascadeConversionsMetric              = "circulation_cascade_conversions_total"
	CascadeSkipsMetric                    = "circulation_cascade_skips_total"
)

// Common label and log attribute keys.
const (
	LogAttrCommandType = "command_type"
	LogAttrError       = "error"
	LogAttrEntity      = "entity"
	LogAttrAttempt     = "attempt"
)

// BuildRetryLabels builds the metric labels for a retry attempt.
func BuildRetryLabels(commandType string, attempt int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		"attempt_number":   fmt.Sprintf("%d", attempt),
		"error_type":       errorType,
	}
}
