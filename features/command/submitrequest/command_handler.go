package submitrequest

import (
	"context"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// Result carries the created request plus execution metadata.
type Result struct {
	Request   core.BorrowRequest
	Execution shell.HandlerResult
}

// CommandHandler orchestrates the submit workflow: consult the catalog for
// early rejection, decide, persist inside one transaction, dispatch intents.
type CommandHandler struct {
	storage      shell.Storage
	catalog      shell.Catalog
	policySource shell.PolicySource
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
	policySource shell.PolicySource,
	effects shell.Effects,
	clock shell.Clock,
	opts ...Option,
) CommandHandler {
	handler := CommandHandler{
		storage:      storage,
		catalog:      catalog,
		policySource: policySource,
		effects:      effects,
		clock:        clock,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the submit workflow. Submitting never contends on copies,
// but the conflict retry keeps the code path uniform with the other commands.
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

	h.effects.Dispatch(ctx, decision.Result.Intents)

	return Result{
		Request:   decision.Request,
		Execution: shell.NewSuccessResult(retryMetrics),
	}, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, error) {
	policy, err := h.policySource.Current(ctx)
	if err != nil {
		return Decision{}, err
	}

	itemExists, err := h.catalog.ItemExists(ctx, command.ItemID)
	if err != nil {
		return Decision{}, err
	}

	circulating := 0
	if itemExists {
		if circulating, err = h.catalog.ActiveCopyCount(ctx, command.ItemID); err != nil {
			return Decision{}, err
		}
	}

	decision := Decide(command, itemExists, circulating, h.clock.Now(), policy)
	if decisionErr := decision.Result.HasError(); decisionErr != nil {
		return Decision{}, decisionErr
	}

	txErr := h.storage.WithinTransaction(ctx, func(txCtx context.Context, tx shell.Transaction) error {
		return tx.InsertBorrowRequest(txCtx, decision.Request)
	})
	if txErr != nil {
		return Decision{}, txErr
	}

	return decision, nil
}
