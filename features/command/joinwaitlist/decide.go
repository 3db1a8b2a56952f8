package joinwaitlist

import (
	"fmt"
	"time"

	"github.com/lendkit/circulation-go/core"
)

// Decision is the outcome of deciding a join command. Entry is only valid when
// Result reports a state change.
type Decision struct {
	Result core.DecisionResult
	Entry  core.WaitlistEntry
}

// Decide implements the business rules for joining an item's waitlist. A
// patron holds at most one place per item; joining again keeps the original
// place and is an idempotent no-op.
//
// Business rules:
//
//	GIVEN: a patron and a catalog item
//	WHEN: JoinWaitlist is received
//	THEN: a queue entry is created, served oldest-first when copies free up
//	IDEMPOTENT: the patron is already queued for this item
//	ERROR: item unknown
//	ERROR: non-positive requested duration
func Decide(command Command, itemExists bool, alreadyQueued bool, now time.Time) Decision {
	if command.DurationDays <= 0 {
		return Decision{Result: core.ErrorDecision(
			fmt.Errorf("%w: requested duration must be positive", core.ErrInvalidState),
		)}
	}

	if !itemExists {
		return Decision{Result: core.ErrorDecision(core.ErrItemUnavailable)}
	}

	if alreadyQueued {
		return Decision{Result: core.IdempotentDecision()}
	}

	entry := core.BuildWaitlistEntry(command.PatronID, command.ItemID, command.DurationDays, now)

	intents := core.Intents{
		Audits: []core.AuditIntent{{
			Category:    core.AuditWaitlistJoined,
			ActorID:     command.PatronID,
			TargetID:    entry.ID,
			Description: fmt.Sprintf("queued for item %s, %d days", command.ItemID, command.DurationDays),
		}},
	}

	return Decision{
		Result: core.SuccessDecision(intents),
		Entry:  entry,
	}
}
