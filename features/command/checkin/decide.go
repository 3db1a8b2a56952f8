package checkin

import (
	"fmt"
	"time"

	"github.com/lendkit/circulation-go/core"
)

// Decision is the outcome of deciding a check-in command. Record is only valid
// when Result reports a state change.
type Decision struct {
	Result core.DecisionResult
	Record core.BorrowRecord
}

// Decide implements the business rules for handing over a reserved copy. The
// handler performs the constant-time secret comparison and passes the verdict
// in so this function stays pure.
//
// Business rules:
//
//	GIVEN: a reservation awaiting pickup and a correct pickup secret
//	WHEN: CheckInReservation is received
//	THEN: the reservation is handed over, the copy checked out, and an ongoing
//	      loan created due after the originally requested duration
//	ERROR: reservation is not awaiting pickup
//	ERROR: the presented secret does not match
func Decide(reservation core.Reservation, secretMatches bool, now time.Time) Decision {
	if reservation.Status != core.ReservationAwaitingPickup {
		return Decision{Result: core.ErrorDecision(
			fmt.Errorf("%w: cannot hand over reservation in status %q", core.ErrInvalidState, reservation.Status),
		)}
	}

	if !secretMatches {
		return Decision{Result: core.ErrorDecision(core.ErrInvalidSecret)}
	}

	record := core.BuildBorrowRecord(
		reservation.CopyID,
		reservation.PatronID,
		reservation.RequestedDurationDays,
		now,
	)

	intents := core.Intents{
		Audits: []core.AuditIntent{{
			Category:    core.AuditCopyHandedOver,
			ActorID:     reservation.PatronID,
			TargetID:    reservation.ID,
			Description: fmt.Sprintf("copy %s handed over, due %s", reservation.CopyID, record.DueDate.Format("2006-01-02")),
		}},
	}

	return Decision{
		Result: core.SuccessDecision(intents),
		Record: record,
	}
}
