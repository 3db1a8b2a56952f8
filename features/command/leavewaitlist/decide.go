package leavewaitlist

import (
	"fmt"

	"github.com/lendkit/circulation-go/core"
)

// Decision is the outcome of deciding a leave command. Entry is only valid
// when Result reports a state change.
type Decision struct {
	Result core.DecisionResult
	Entry  core.WaitlistEntry
}

// Decide implements the business rules for withdrawing from a waitlist. A
// missing entry is an idempotent no-op rather than an error: the cascade may
// have just converted it, and both outcomes leave the patron off the queue.
//
// Business rules:
//
//	GIVEN: a patron queued for an item
//	WHEN: LeaveWaitlist is received
//	THEN: the queue entry is removed
//	IDEMPOTENT: the patron holds no entry for this item
func Decide(command Command, entry core.WaitlistEntry, found bool) Decision {
	if !found {
		return Decision{Result: core.IdempotentDecision()}
	}

	intents := core.Intents{
		Audits: []core.AuditIntent{{
			Category:    core.AuditWaitlistLeft,
			ActorID:     command.PatronID,
			TargetID:    entry.ID,
			Description: fmt.Sprintf("withdrew from the queue for item %s", command.ItemID),
		}},
	}

	return Decision{
		Result: core.SuccessDecision(intents),
		Entry:  entry,
	}
}
