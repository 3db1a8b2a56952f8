package rejectrequest

import (
	"fmt"

	"github.com/lendkit/circulation-go/core"
)

// Decide implements the business rules for rejecting a borrow request.
//
// Business rules:
//
//	GIVEN: a pending borrow request
//	WHEN: RejectBorrowRequest is received
//	THEN: the request is rejected with the given reason and the patron notified
//	ERROR: request is not pending
func Decide(command Command, request core.BorrowRequest) core.DecisionResult {
	if request.Status != core.RequestPending {
		return core.ErrorDecision(
			fmt.Errorf("%w: cannot reject request in status %q", core.ErrInvalidState, request.Status),
		)
	}

	return core.SuccessDecision(core.Intents{
		Notifications: []core.NotificationIntent{{
			PatronID: request.PatronID,
			Category: core.NotifyRequestRejected,
			Message:  fmt.Sprintf("your borrow request was rejected: %s", command.Reason),
		}},
		Audits: []core.AuditIntent{{
			Category:    core.AuditRequestRejected,
			ActorID:     command.ActorID,
			TargetID:    request.ID,
			Description: command.Reason,
		}},
	})
}
