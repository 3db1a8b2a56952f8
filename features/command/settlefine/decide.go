package settlefine

import (
	"fmt"

	"github.com/lendkit/circulation-go/core"
)

// Decide implements the business rules for settling a fine.
//
// Business rules:
//
//	GIVEN: an unpaid fine
//	WHEN: SettleFine is received with outcome paid or waived
//	THEN: the fine moves to that terminal status
//	IDEMPOTENT: fine is already in the requested status
//	ERROR: unknown outcome, or fine settled with the other outcome
func Decide(command Command, fine core.Fine) core.DecisionResult {
	if command.Outcome != core.FinePaid && command.Outcome != core.FineWaived {
		return core.ErrorDecision(
			fmt.Errorf("%w: invalid settlement outcome %q", core.ErrInvalidState, command.Outcome),
		)
	}

	if fine.Status == command.Outcome {
		return core.IdempotentDecision()
	}

	if fine.Status != core.FineUnpaid {
		return core.ErrorDecision(
			fmt.Errorf("%w: cannot settle fine in status %q", core.ErrInvalidState, fine.Status),
		)
	}

	category := core.AuditFinePaid
	description := fmt.Sprintf("fine of %d cents paid", fine.Amount)

	if command.Outcome == core.FineWaived {
		category = core.AuditFineWaived
		description = fmt.Sprintf("fine of %d cents waived", fine.Amount)
	}

	return core.SuccessDecision(core.Intents{
		Audits: []core.AuditIntent{{
			Category:    category,
			ActorID:     command.ActorID,
			TargetID:    fine.ID,
			Description: description,
		}},
	})
}
