package approverequest

import (
	"context"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// Result carries the created reservation, the plaintext pickup secret, and
// execution metadata. The secret exists only here and in the pickup
// notification; storage keeps the hash.
type Result struct {
	Reservation  core.Reservation
	PickupSecret string
	Execution    shell.HandlerResult
}

// CommandHandler orchestrates the approve workflow: claim one available copy,
// approve the request, and create the secret-protected reservation, all in one
// transaction.
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

// Handle executes the approve workflow. Copy selection and the status flip are
// split across a read and a conditional write, so losing a race on the copy
// surfaces as a conflict and triggers one retry with fresh reads. A retry that
// finds no remaining available copy fails with core.ErrNoCopyAvailable.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var decision Decision
	var pickupSecret string

	retryMetrics, err := shell.RetryOnConflict(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, pickupSecret, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{Execution: shell.NewErrorResult(retryMetrics)}, err
	}

	h.effects.Dispatch(ctx, decision.Result.Intents)

	return Result{
		Reservation:  decision.Reservation,
		PickupSecret: pickupSecret,
		Execution:    shell.NewSuccessResult(retryMetrics),
	}, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, string, error) {
	policy, err := h.policySource.Current(ctx)
	if err != nil {
		return Decision{}, "", err
	}

	request, err := h.storage.GetBorrowRequest(ctx, command.RequestID)
	if err != nil {
		return Decision{}, "", err
	}

	copy, err := h.storage.FindAvailableCopy(ctx, request.ItemID)
	if err != nil {
		return Decision{}, "", err
	}

	pickupSecret, err := shell.NewPickupSecret()
	if err != nil {
		return Decision{}, "", err
	}

	secretHash, err := shell.HashPickupSecret(pickupSecret)
	if err != nil {
		return Decision{}, "", err
	}

	decision := Decide(command, request, copy, pickupSecret, secretHash, h.clock.Now(), policy)
	if decisionErr := decision.Result.HasError(); decisionErr != nil {
		return Decision{}, "", decisionErr
	}

	txErr := h.storage.WithinTransaction(ctx, func(txCtx context.Context, tx shell.Transaction) error {
		if claimErr := tx.TransitionCopy(txCtx, copy.ID, core.CopyAvailable, core.CopyReserved); claimErr != nil {
			return claimErr
		}

		if reqErr := tx.TransitionRequest(txCtx, request.ID, core.RequestPending, core.RequestApproved, ""); reqErr != nil {
			return reqErr
		}

		return tx.InsertReservation(txCtx, decision.Reservation)
	})
	if txErr != nil {
		return Decision{}, "", txErr
	}

	return decision, pickupSecret, nil
}
