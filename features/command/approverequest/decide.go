package approverequest

import (
	"fmt"
	"time"

	"github.com/lendkit/circulation-go/core"
)

// Decision is the outcome of deciding an approve command. Reservation is only
// valid when Result reports a state change.
type Decision struct {
	Result      core.DecisionResult
	Reservation core.Reservation
}

// Decide implements the business rules for approving a borrow request. The
// handler selects the candidate copy and generates the pickup secret; both are
// passed in so this function stays pure.
//
// Business rules:
//
//	GIVEN: a pending borrow request and an available copy of its item
//	WHEN: ApproveBorrowRequest is received
//	THEN: the copy is claimed, the request approved, and a secret-protected
//	      reservation awaits pickup until the policy reservation window closes
//	ERROR: request is not pending
//	ERROR: the candidate copy is not available or belongs to another item
func Decide(
	command Command,
	request core.BorrowRequest,
	copy core.Copy,
	pickupSecret string,
	secretHash string,
	now time.Time,
	policy core.Policy,
) Decision {
	if request.Status != core.RequestPending {
		return Decision{Result: core.ErrorDecision(
			fmt.Errorf("%w: cannot approve request in status %q", core.ErrInvalidState, request.Status),
		)}
	}

	if copy.Status != core.CopyAvailable || copy.ItemID != request.ItemID {
		return Decision{Result: core.ErrorDecision(core.ErrNoCopyAvailable)}
	}

	reservation := core.BuildReservation(
		request.ID,
		copy.ID,
		request.PatronID,
		secretHash,
		request.RequestedDurationDays,
		now,
		policy,
	)

	intents := core.Intents{
		Notifications: []core.NotificationIntent{{
			PatronID: request.PatronID,
			Category: core.NotifyReservationReady,
			Message: fmt.Sprintf(
				"your copy is reserved until %s, pickup code: %s",
				reservation.ExpiresAt.Format("2006-01-02"), pickupSecret,
			),
		}},
		Audits: []core.AuditIntent{{
			Category:    core.AuditRequestApproved,
			ActorID:     command.ActorID,
			TargetID:    request.ID,
			Description: fmt.Sprintf("approved, copy %s reserved for patron %s", copy.ID, request.PatronID),
		}},
	}

	return Decision{
		Result:      core.SuccessDecision(intents),
		Reservation: reservation,
	}
}
