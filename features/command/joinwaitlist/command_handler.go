package joinwaitlist

import (
	"context"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// Result carries the created queue entry plus execution metadata. Entry is the
// zero value when the join was idempotent.
type Result struct {
	Entry     core.WaitlistEntry
	Execution shell.HandlerResult
}

// CommandHandler orchestrates the join-waitlist workflow.
type CommandHandler struct {
	storage      shell.Storage
	catalog      shell.Catalog
	effects      shell.Effects
	clock        shell.Clock
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
func NewCommandHandler(
	storage shell.Storage,
	catalog shell.Catalog,
	effects shell.Effects,
	clock shell.Clock,
	opts ...Option,
) CommandHandler {
	handler := CommandHandler{
		storage: storage,
		catalog: catalog,
		effects: effects,
		clock:   clock,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the join-waitlist workflow. Two concurrent joins by the same
// patron are resolved by the unique queue constraint: the loser sees a
// conflict, retries, and lands on the idempotent path.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var decision Decision

	retryMetrics, err := shell.RetryOnConflict(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{Execution: shell.NewErrorResult(retryMetrics)}, err
	}

	if !decision.Result.HasStateChange() {
		return Result{Execution: shell.NewIdempotentResult(retryMetrics)}, nil
	}

	h.effects.Dispatch(ctx, decision.Result.Intents)

	return Result{
		Entry:     decision.Entry,
		Execution: shell.NewSuccessResult(retryMetrics),
	}, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, error) {
	itemExists, err := h.catalog.ItemExists(ctx, command.ItemID)
	if err != nil {
		return Decision{}, err
	}

	alreadyQueued := false
	if itemExists {
		if alreadyQueued, err = h.storage.HasWaitlistEntry(ctx, command.PatronID, command.ItemID); err != nil {
			return Decision{}, err
		}
	}

	decision := Decide(command, itemExists, alreadyQueued, h.clock.Now())
	if decisionErr := decision.Result.HasError(); decisionErr != nil {
		return Decision{}, decisionErr
	}

	if !decision.Result.HasStateChange() {
		return decision, nil
	}

	txErr := h.storage.WithinTransaction(ctx, func(txCtx context.Context, tx shell.Transaction) error {
		return tx.InsertWaitlistEntry(txCtx, decision.Entry)
	})
	if txErr != nil {
		return Decision{}, txErr
	}

	return decision, nil
}
