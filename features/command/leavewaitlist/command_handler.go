package leavewaitlist

import (
	"context"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// CommandHandler orchestrates the leave-waitlist workflow.
type CommandHandler struct {
	storage      shell.Storage
	effects      shell.Effects
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(storage shell.Storage, effects shell.Effects, opts ...Option) CommandHandler {
	handler := CommandHandler{
		storage: storage,
		effects: effects,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the leave-waitlist workflow.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var decision Decision

	retryMetrics, err := shell.RetryOnConflict(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if !decision.Result.HasStateChange() {
		return shell.NewIdempotentResult(retryMetrics), nil
	}

	h.effects.Dispatch(ctx, decision.Result.Intents)

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, error) {
	entries, err := h.storage.ListWaitlist(ctx, command.ItemID)
	if err != nil {
		return Decision{}, err
	}

	var entry core.WaitlistEntry
	found := false
	for _, candidate := range entries {
		if candidate.PatronID == command.PatronID {
			entry = candidate
			found = true

			break
		}
	}

	decision := Decide(command, entry, found)
	if decisionErr := decision.Result.HasError(); decisionErr != nil {
		return Decision{}, decisionErr
	}

	if !decision.Result.HasStateChange() {
		return decision, nil
	}

	txErr := h.storage.WithinTransaction(ctx, func(txCtx context.Context, tx shell.Transaction) error {
		return tx.DeleteWaitlistEntry(txCtx, entry.ID)
	})
	if txErr != nil {
		return Decision{}, txErr
	}

	return decision, nil
}
