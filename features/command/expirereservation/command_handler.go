package expirereservation

import (
	"context"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// CommandHandler forces the expired transition on a lapsed reservation and
// releases the bound copy. Losing a race against a live check-in or cancel is
// idempotent: the conflict retry re-reads and finds the work already done.
type CommandHandler struct {
	storage      shell.Storage
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
	policySource shell.PolicySource,
	effects shell.Effects,
	clock shell.Clock,
	opts ...Option,
) CommandHandler {
	handler := CommandHandler{
		storage:      storage,
		policySource: policySource,
		effects:      effects,
		clock:        clock,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the expire-reservation workflow.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var result core.DecisionResult

	retryMetrics, err := shell.RetryOnConflict(ctx, func(retryCtx context.Context) error {
		var execErr error
		result, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if !result.HasStateChange() {
		return shell.NewIdempotentResult(retryMetrics), nil
	}

	h.effects.Dispatch(ctx, result.Intents)

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
	policy, err := h.policySource.Current(ctx)
	if err != nil {
		return core.DecisionResult{}, err
	}

	reservation, err := h.storage.GetReservation(ctx, command.ReservationID)
	if err != nil {
		return core.DecisionResult{}, err
	}

	copy, err := h.storage.GetCopy(ctx, reservation.CopyID)
	if err != nil {
		return core.DecisionResult{}, err
	}

	result := Decide(reservation, copy, h.clock.Now(), policy)
	if decisionErr := result.HasError(); decisionErr != nil {
		return core.DecisionResult{}, decisionErr
	}

	if !result.HasStateChange() {
		return result, nil
	}

	txErr := h.storage.WithinTransaction(ctx, func(txCtx context.Context, tx shell.Transaction) error {
		if resErr := tx.TransitionReservation(txCtx, reservation.ID, core.ReservationAwaitingPickup, core.ReservationExpired); resErr != nil {
			return resErr
		}

		return tx.TransitionCopy(txCtx, reservation.CopyID, core.CopyReserved, core.CopyAvailable)
	})
	if txErr != nil {
		return core.DecisionResult{}, txErr
	}

	return result, nil
}
