package failhandover

import (
	"fmt"

	"github.com/lendkit/circulation-go/core"
)

// Decide implements the business rules for recording a failed handover.
//
// Business rules:
//
//	GIVEN: a reservation awaiting pickup
//	WHEN: FailHandover is received
//	THEN: the reservation is marked handover_failed and the copy freed
//	IDEMPOTENT: reservation is already marked handover_failed
//	ERROR: reservation is handed over, canceled, or expired
func Decide(command Command, reservation core.Reservation, copy core.Copy) core.DecisionResult {
	if reservation.Status == core.ReservationHandoverFailed {
		return core.IdempotentDecision()
	}

	if reservation.Status != core.ReservationAwaitingPickup {
		return core.ErrorDecision(
			fmt.Errorf("%w: cannot fail handover of reservation in status %q", core.ErrInvalidState, reservation.Status),
		)
	}

	return core.SuccessDecision(core.Intents{
		Audits: []core.AuditIntent{{
			Category:    core.AuditHandoverFailed,
			ActorID:     command.ActorID,
			TargetID:    reservation.ID,
			Description: fmt.Sprintf("handover of copy %s failed: %s", reservation.CopyID, command.Reason),
		}},
		FreedCopies: []core.CopyFreedIntent{{
			ItemID: copy.ItemID,
			CopyID: copy.ID,
		}},
	})
}
