package submitrequest

import (
	"fmt"
	"time"

	"github.com/lendkit/circulation-go/core"
)

// Decision is the outcome of deciding a submit command. Request is only valid
// when Result reports a state change.
type Decision struct {
	Result  core.DecisionResult
	Request core.BorrowRequest
}

// Decide implements the business rules for submitting a borrow request.
// Pure: catalog facts are read by the handler and passed in.
//
// Business rules:
//
//	GIVEN: a patron and a catalog item
//	WHEN: SubmitBorrowRequest is received
//	THEN: a pending BorrowRequest expiring after the policy request window
//	ERROR: item unknown or zero circulating copies configured
//	ERROR: non-positive requested duration
func Decide(command Command, itemExists bool, circulatingCopies int, now time.Time, policy core.Policy) Decision {
	if command.DurationDays <= 0 {
		return Decision{Result: core.ErrorDecision(
			fmt.Errorf("%w: requested duration must be positive", core.ErrInvalidState),
		)}
	}

	if !itemExists || circulatingCopies == 0 {
		return Decision{Result: core.ErrorDecision(core.ErrItemUnavailable)}
	}

	request := core.BuildBorrowRequest(command.PatronID, command.ItemID, command.DurationDays, now, policy)

	intents := core.Intents{
		Audits: []core.AuditIntent{{
			Category:    core.AuditRequestSubmitted,
			ActorID:     command.PatronID,
			TargetID:    request.ID,
			Description: fmt.Sprintf("borrow request for item %s, %d days", command.ItemID, command.DurationDays),
		}},
	}

	return Decision{
		Result:  core.SuccessDecision(intents),
		Request: request,
	}
}
