package shell

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// A conditional write that lost its race is retried once with fresh reads
// before the conflict is surfaced, so callers see at most one internal retry.
const (
	defaultMaxAttempts  = 2
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")

	// ErrNilMetricsCollector is returned when a nil metrics collector is provided to WithRetryMetrics.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics captures how an execution went for handler results and metrics.
type RetryMetrics struct {
	Attempts         int
	TotalDelay       time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	metricsCollector MetricsCollector
	commandType      string
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of attempts (first try included).
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter added to backoff delays to prevent
// thundering herds. Valid range: 0.0 (no jitter) to 1.0 (100% jitter).
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithRetryMetrics sets the metrics collector for retry instrumentation.
// Requires commandType to label the metrics.
func WithRetryMetrics(collector MetricsCollector, commandType string) RetryOption {
	return func(config *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		config.metricsCollector = collector
		config.commandType = commandType

		return nil
	}
}

// RetryOnConflict executes fn, retrying on ErrTransactionConflict with
// exponential backoff. All other errors fail fast: a business rule violation
// does not become true by asking again, and timeouts retried under overload
// cascade. The returned RetryMetrics always describe the full execution, also
// on failure.
func RetryOnConflict(ctx context.Context, fn RetryableFunc, options ...RetryOption) (RetryMetrics, error) {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	metrics := RetryMetrics{}

	for _, option := range options {
		if err := option(config); err != nil {
			return metrics, err
		}
	}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.baseDelay * time.Duration(1<<(attempt-1))

			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)
			metrics.TotalDelay += backoffDelay

			recordRetryDelay(config, attempt, backoffDelay)

			select {
			case <-time.After(backoffDelay):
			case <-ctx.Done():
				metrics.LastErrorType = errorType(ctx.Err())
				return metrics, ctx.Err()
			}
		}

		metrics.Attempts = attempt + 1
		lastErr = fn(ctx)

		if lastErr == nil {
			metrics.LastErrorType = errorType(nil)
			return metrics, nil
		}

		if !errors.Is(lastErr, ErrTransactionConflict) {
			metrics.LastErrorType = errorType(lastErr)
			return metrics, lastErr
		}

		recordRetryAttempt(config, attempt, lastErr)
	}

	metrics.LastErrorType = errorType(lastErr)
	metrics.RetriesExhausted = true

	recordRetriesExhausted(config, lastErr)

	return metrics, lastErr
}

func recordRetryDelay(config *retryConfig, attempt int, delay time.Duration) {
	if config.metricsCollector == nil {
		return
	}

	config.metricsCollector.RecordDuration(
		CommandHandlerRetryDelayMetric,
		delay,
		BuildRetryLabels(config.commandType, attempt, "transaction_conflict"),
	)
}

func recordRetryAttempt(config *retryConfig, attempt int, err error) {
	if config.metricsCollector == nil || attempt >= config.maxAttempts-1 {
		return
	}

	config.metricsCollector.IncrementCounter(
		CommandHandlerRetriesMetric,
		BuildRetryLabels(config.commandType, attempt+1, errorType(err)),
	)
}

func recordRetriesExhausted(config *retryConfig, err error) {
	if config.metricsCollector == nil {
		return
	}

	config.metricsCollector.IncrementCounter(
		CommandHandlerMaxRetriesReachedMetric,
		map[string]string{
			LogAttrCommandType: config.commandType,
			"final_error_type": errorType(err),
		},
	)
}

func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTransactionConflict):
		return "transaction_conflict"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	default:
		return "other"
	}
}
