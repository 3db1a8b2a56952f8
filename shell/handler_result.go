package shell

import "time"

// HandlerResult represents the outcome of a command handler execution. It
// captures both the business outcome (idempotency) and execution metadata
// (retry information) without coupling handlers to specific observability
// implementations.
type HandlerResult struct {
	// Idempotent indicates the operation found its work already done. This is
	// a first-class business outcome, not an error condition.
	Idempotent bool

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff.
	TotalRetryDelay time.Duration

	// LastErrorType describes the final error encountered: "none",
	// "transaction_conflict", "context_canceled", "context_deadline_exceeded",
	// or "other".
	LastErrorType string

	// RetriesExhausted indicates the conflict retry budget was used up.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for a committed state change.
func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewIdempotentResult creates a HandlerResult for an operation that needed no
// state change.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := NewSuccessResult(retryMetrics)
	result.Idempotent = true

	return result
}

// NewErrorResult creates a HandlerResult for a failed operation that still
// wants to report retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return NewSuccessResult(retryMetrics)
}
