package expirerequest

import (
	"fmt"
	"time"

	"github.com/lendkit/circulation-go/core"
)

// Decide implements the business rules for expiring a borrow request. The
// sweeper and a live actor may race for the same record; a request that is
// already terminal or not yet due is an idempotent no-op, never an error.
//
// Business rules:
//
//	GIVEN: a pending borrow request past its deadline
//	WHEN: ExpireBorrowRequest is received
//	THEN: the request expires and the patron is notified
//	IDEMPOTENT: request is already terminal, or not yet due
func Decide(request core.BorrowRequest, now time.Time) core.DecisionResult {
	if request.IsTerminal() {
		return core.IdempotentDecision()
	}

	if now.Before(request.ExpiresAt) {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.Intents{
		Notifications: []core.NotificationIntent{{
			PatronID: request.PatronID,
			Category: core.NotifyRequestExpired,
			Message:  "your borrow request expired before it was approved",
		}},
		Audits: []core.AuditIntent{{
			Category:    core.AuditRequestExpired,
			ActorID:     request.PatronID,
			TargetID:    request.ID,
			Description: fmt.Sprintf("request expired at %s", request.ExpiresAt.Format(time.RFC3339)),
		}},
	})
}
