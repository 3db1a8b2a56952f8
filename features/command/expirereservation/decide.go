package expirereservation

import (
	"fmt"
	"time"

	"github.com/lendkit/circulation-go/core"
)

// Decide implements the business rules for expiring a reservation. Letting a
// hold lapse is a punishable action: the patron loses reputation per policy,
// and the freed copy is announced to the waitlist cascade.
//
// Business rules:
//
//	GIVEN: a reservation awaiting pickup past its deadline
//	WHEN: ExpireReservation is received
//	THEN: the reservation expires, the copy is freed, the patron penalized and notified
//	IDEMPOTENT: reservation is already terminal, or not yet due
func Decide(reservation core.Reservation, copy core.Copy, now time.Time, policy core.Policy) core.DecisionResult {
	if reservation.IsTerminal() {
		return core.IdempotentDecision()
	}

	if now.Before(reservation.ExpiresAt) {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.Intents{
		Notifications: []core.NotificationIntent{{
			PatronID: reservation.PatronID,
			Category: core.NotifyReservationExpired,
			Message:  "your reservation expired because the copy was not picked up in time",
		}},
		Audits: []core.AuditIntent{{
			Category:    core.AuditReservationExpired,
			ActorID:     reservation.PatronID,
			TargetID:    reservation.ID,
			Description: fmt.Sprintf("reservation for copy %s expired at %s", reservation.CopyID, reservation.ExpiresAt.Format(time.RFC3339)),
		}},
		Reputation: []core.ReputationIntent{{
			PatronID: reservation.PatronID,
			Delta:    -policy.ReputationLossOnExpire,
		}},
		FreedCopies: []core.CopyFreedIntent{{
			ItemID: copy.ItemID,
			CopyID: copy.ID,
		}},
	})
}
