package core

import (
	"time"

	"github.com/google/uuid"
)

// FineReason records what a fine was assessed for.
type FineReason string

// Fine reasons. Combined is used when a late return also came back damaged or lost.
const (
	FineReasonOverdue  FineReason = "overdue"
	FineReasonDamaged  FineReason = "damaged"
	FineReasonLost     FineReason = "lost"
	FineReasonCombined FineReason = "combined"
)

// FineStatus is the settlement status of a fine.
type FineStatus string

// Fine settlement statuses.
const (
	FineUnpaid FineStatus = "unpaid"
	FinePaid   FineStatus = "paid"
	FineWaived FineStatus = "waived"
)

// Fine is a monetary penalty tied to a borrow record. Fines are only ever
// created as a side effect of a return or loss transition.
type Fine struct {
	ID             uuid.UUID
	BorrowRecordID uuid.UUID
	PatronID       uuid.UUID
	Amount         Cents
	Reason         FineReason
	Status         FineStatus
	IssuedAt       time.Time
	PaidAt         time.Time // zero unless paid
}

// FineAssessment is the outcome of the fine calculator: how many days late the
// return was, the resulting amount, and the reason to record.
type FineAssessment struct {
	OverdueDays int
	Amount      Cents
	Reason      FineReason
}

// Chargeable reports whether the assessment warrants persisting a fine at all.
func (a FineAssessment) Chargeable() bool {
	return a.Amount > 0
}

// ComputeFine computes the penalty for a return. The amount is the number of
// whole days past the due date times the per-day late fee, plus the flat
// damaged or lost fee when the copy did not come back in normal condition.
// Deterministic given its inputs; the caller supplies the return instant.
func ComputeFine(dueDate time.Time, returnedAt time.Time, condition ReturnCondition, policy Policy) FineAssessment {
	overdueDays := DaysBetween(dueDate, returnedAt)

	assessment := FineAssessment{
		OverdueDays: overdueDays,
		Amount:      Cents(overdueDays) * policy.LateFeePerDay,
	}

	switch condition {
	case ReturnDamaged:
		assessment.Amount += policy.DamagedFee
	case ReturnLost:
		assessment.Amount += policy.LostFee
	case ReturnNormal:
		// late fee only
	}

	assessment.Reason = fineReason(overdueDays, condition)

	return assessment
}

func fineReason(overdueDays int, condition ReturnCondition) FineReason {
	late := overdueDays > 0

	switch {
	case late && condition == ReturnDamaged, late && condition == ReturnLost:
		return FineReasonCombined
	case condition == ReturnDamaged:
		return FineReasonDamaged
	case condition == ReturnLost:
		return FineReasonLost
	default:
		return FineReasonOverdue
	}
}

// BuildFine creates a persistable fine from an assessment. alreadyCollected
// marks the fine as paid on issue, for desk workflows where the amount was
// collected on the spot.
func BuildFine(recordID uuid.UUID, patronID uuid.UUID, assessment FineAssessment, alreadyCollected bool, now time.Time) Fine {
	fine := Fine{
		ID:             uuid.New(),
		BorrowRecordID: recordID,
		PatronID:       patronID,
		Amount:         assessment.Amount,
		Reason:         assessment.Reason,
		Status:         FineUnpaid,
		IssuedAt:       ToOccurredAt(now),
	}

	if alreadyCollected {
		fine.Status = FinePaid
		fine.PaidAt = ToOccurredAt(now)
	}

	return fine
}
