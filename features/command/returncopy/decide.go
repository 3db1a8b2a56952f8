package returncopy

import (
	"fmt"
	"time"

	"github.com/lendkit/circulation-go/core"
)

// Decision is the outcome of deciding a return command. RecordStatus,
// CopyTarget, Fine, and Fined are only valid when Result reports a state change.
type Decision struct {
	Result core.DecisionResult

	RecordStatus core.RecordStatus
	CopyTarget   core.CopyStatus
	Fine         core.Fine
	Fined        bool
}

// Decide implements the business rules for closing a loan.
//
// Business rules:
//
//	GIVEN: an ongoing loan and the copy it holds
//	WHEN: ReturnCopy is received
//	THEN: the loan closes as returned (or lost), any overdue or damage penalty
//	      is assessed, and the copy goes back to available, is retired, or is
//	      marked lost
//	ERROR: the loan is already returned or lost
//	ERROR: unknown return condition
func Decide(command Command, record core.BorrowRecord, copy core.Copy, now time.Time, policy core.Policy) Decision {
	if record.IsTerminal() {
		return Decision{Result: core.ErrorDecision(
			fmt.Errorf("%w: loan is already %s", core.ErrInvalidState, record.Status),
		)}
	}

	switch command.Condition {
	case core.ReturnNormal, core.ReturnDamaged, core.ReturnLost:
	default:
		return Decision{Result: core.ErrorDecision(
			fmt.Errorf("%w: unknown return condition %q", core.ErrInvalidState, command.Condition),
		)}
	}

	decision := Decision{
		RecordStatus: core.RecordReturned,
		CopyTarget:   copyTarget(command),
	}
	if command.Condition == core.ReturnLost {
		decision.RecordStatus = core.RecordLost
	}

	var intents core.Intents

	assessment := core.ComputeFine(record.DueDate, now, command.Condition, policy)
	if assessment.Chargeable() {
		decision.Fine = core.BuildFine(record.ID, record.PatronID, assessment, command.FineCollected, now)
		decision.Fined = true

		intents.Notifications = append(intents.Notifications, core.NotificationIntent{
			PatronID: record.PatronID,
			Category: core.NotifyFineIssued,
			Message: fmt.Sprintf("a fine of %d cents was issued for your return (%s, %d days late)",
				assessment.Amount, assessment.Reason, assessment.OverdueDays),
		})
	}

	intents.Audits = append(intents.Audits, core.AuditIntent{
		Category:    core.AuditCopyReturned,
		ActorID:     command.ActorID,
		TargetID:    record.ID,
		Description: fmt.Sprintf("copy %s returned in condition %s", record.CopyID, command.Condition),
	})

	if decision.CopyTarget == core.CopyAvailable {
		intents.FreedCopies = append(intents.FreedCopies, core.CopyFreedIntent{
			ItemID: copy.ItemID,
			CopyID: copy.ID,
		})
	}

	decision.Result = core.SuccessDecision(intents)

	return decision
}

func copyTarget(command Command) core.CopyStatus {
	if command.Condition == core.ReturnLost {
		return core.CopyLost
	}

	if command.MakeAvailableAfter {
		return core.CopyAvailable
	}

	return core.CopyRetired
}
