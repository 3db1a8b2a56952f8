package checkin

import (
	"context"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// Result carries the created loan plus execution metadata.
type Result struct {
	Record    core.BorrowRecord
	Execution shell.HandlerResult
}

// CommandHandler orchestrates the check-in workflow: verify the pickup secret,
// hand the reservation over, check the copy out, and open the loan, all in one
// transaction.
type CommandHandler struct {
	storage      shell.Storage
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
func NewCommandHandler(storage shell.Storage, effects shell.Effects, clock shell.Clock, opts ...Option) CommandHandler {
	handler := CommandHandler{
		storage: storage,
		effects: effects,
		clock:   clock,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the check-in workflow.
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
		Record:    decision.Record,
		Execution: shell.NewSuccessResult(retryMetrics),
	}, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, error) {
	reservation, err := h.storage.GetReservation(ctx, command.ReservationID)
	if err != nil {
		return Decision{}, err
	}

	secretMatches := shell.VerifyPickupSecret(command.PresentedSecret, reservation.SecretHash)

	decision := Decide(reservation, secretMatches, h.clock.Now())
	if decisionErr := decision.Result.HasError(); decisionErr != nil {
		return Decision{}, decisionErr
	}

	txErr := h.storage.WithinTransaction(ctx, func(txCtx context.Context, tx shell.Transaction) error {
		if resErr := tx.TransitionReservation(txCtx, reservation.ID, core.ReservationAwaitingPickup, core.ReservationHandedOver); resErr != nil {
			return resErr
		}

		if copyErr := tx.TransitionCopy(txCtx, reservation.CopyID, core.CopyReserved, core.CopyCheckedOut); copyErr != nil {
			return copyErr
		}

		return tx.InsertBorrowRecord(txCtx, decision.Record)
	})
	if txErr != nil {
		return Decision{}, txErr
	}

	return decision, nil
}
