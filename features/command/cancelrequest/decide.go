package cancelrequest

import (
	"fmt"

	"github.com/lendkit/circulation-go/core"
)

// Decide implements the business rules for canceling a borrow request.
// Canceling an already-canceled request is idempotent so that a patron
// double-submitting the action sees success both times.
//
// Business rules:
//
//	GIVEN: a pending borrow request
//	WHEN: CancelBorrowRequest is received
//	THEN: the request is canceled
//	IDEMPOTENT: request is already canceled
//	ERROR: request is approved, rejected, or expired
func Decide(command Command, request core.BorrowRequest) core.DecisionResult {
	if request.Status == core.RequestCanceled {
		return core.IdempotentDecision()
	}

	if request.Status != core.RequestPending {
		return core.ErrorDecision(
			fmt.Errorf("%w: cannot cancel request in status %q", core.ErrInvalidState, request.Status),
		)
	}

	return core.SuccessDecision(core.Intents{
		Audits: []core.AuditIntent{{
			Category:    core.AuditRequestCanceled,
			ActorID:     command.ActorID,
			TargetID:    request.ID,
			Description: fmt.Sprintf("borrow request for item %s canceled", request.ItemID),
		}},
	})
}
