package cancelreservation

import (
	"fmt"

	"github.com/lendkit/circulation-go/core"
)

// Decide implements the business rules for canceling a reservation. Giving up
// a hold is a punishable action: the patron loses reputation per policy, and
// the freed copy is announced to the waitlist cascade.
//
// Business rules:
//
//	GIVEN: a reservation awaiting pickup
//	WHEN: CancelReservation is received
//	THEN: the reservation is canceled, the copy freed, and the patron penalized
//	IDEMPOTENT: reservation is already canceled
//	ERROR: reservation is handed over, failed, or expired
func Decide(command Command, reservation core.Reservation, copy core.Copy, policy core.Policy) core.DecisionResult {
	if reservation.Status == core.ReservationCanceled {
		return core.IdempotentDecision()
	}

	if reservation.Status != core.ReservationAwaitingPickup {
		return core.ErrorDecision(
			fmt.Errorf("%w: cannot cancel reservation in status %q", core.ErrInvalidState, reservation.Status),
		)
	}

	return core.SuccessDecision(core.Intents{
		Audits: []core.AuditIntent{{
			Category:    core.AuditReservationCanceled,
			ActorID:     command.ActorID,
			TargetID:    reservation.ID,
			Description: fmt.Sprintf("reservation for copy %s canceled", reservation.CopyID),
		}},
		Reputation: []core.ReputationIntent{{
			PatronID: reservation.PatronID,
			Delta:    -policy.ReputationLossOnCancel,
		}},
		FreedCopies: []core.CopyFreedIntent{{
			ItemID: copy.ItemID,
			CopyID: copy.ID,
		}},
	})
}
