package returncopy

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// Result carries the closed loan, the fine if one was assessed, and execution
// metadata.
type Result struct {
	Record    core.BorrowRecord
	Fine      core.Fine
	Fined     bool
	Execution shell.HandlerResult
}

// CommandHandler orchestrates the return workflow: close the loan, assess any
// penalty, and move the copy to its next status, all in one transaction. A
// copy returning to available feeds the waitlist cascade after commit.
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

// Handle executes the return workflow.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var decision Decision
	var closed core.BorrowRecord

	retryMetrics, err := shell.RetryOnConflict(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, closed, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{Execution: shell.NewErrorResult(retryMetrics)}, err
	}

	h.effects.Dispatch(ctx, decision.Result.Intents)

	return Result{
		Record:    closed,
		Fine:      decision.Fine,
		Fined:     decision.Fined,
		Execution: shell.NewSuccessResult(retryMetrics),
	}, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, core.BorrowRecord, error) {
	policy, err := h.policySource.Current(ctx)
	if err != nil {
		return Decision{}, core.BorrowRecord{}, err
	}

	record, err := h.storage.GetBorrowRecord(ctx, command.BorrowRecordID)
	if err != nil {
		return Decision{}, core.BorrowRecord{}, err
	}

	copy, err := h.storage.GetCopy(ctx, record.CopyID)
	if err != nil {
		return Decision{}, core.BorrowRecord{}, err
	}

	now := h.clock.Now()

	decision := Decide(command, record, copy, now, policy)
	if decisionErr := decision.Result.HasError(); decisionErr != nil {
		return Decision{}, core.BorrowRecord{}, decisionErr
	}

	fineID := uuid.Nil
	if decision.Fined {
		fineID = decision.Fine.ID
	}

	txErr := h.storage.WithinTransaction(ctx, func(txCtx context.Context, tx shell.Transaction) error {
		if closeErr := tx.CloseBorrowRecord(txCtx, record.ID, decision.RecordStatus, now, command.Condition, fineID); closeErr != nil {
			return closeErr
		}

		if copyErr := tx.TransitionCopy(txCtx, copy.ID, core.CopyCheckedOut, decision.CopyTarget); copyErr != nil {
			return copyErr
		}

		if decision.Fined {
			return tx.InsertFine(txCtx, decision.Fine)
		}

		return nil
	})
	if txErr != nil {
		return Decision{}, core.BorrowRecord{}, txErr
	}

	closed := record
	closed.Status = decision.RecordStatus
	closed.ReturnDate = core.ToOccurredAt(now)
	closed.ReturnCondition = command.Condition
	closed.FineID = fineID

	return decision, closed, nil
}
