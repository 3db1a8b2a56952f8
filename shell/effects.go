package shell

import (
	"context"

	"github.com/lendkit/circulation-go/core"
)

// Effects dispatches the side-effect intents collected by a decision after its
// transaction has committed. Every dispatch is fire-and-forget: collaborator
// failures are logged here and never reach the caller of the state-changing
// operation. All fields are optional; nil collaborators are skipped.
type Effects struct {
	Notifier     Notifier
	Audit        AuditSink
	Patrons      PatronDirectory
	Availability AvailabilitySignal
	Logger       Logger
}

// Dispatch delivers notifications, audit records, and reputation adjustments,
// then announces freed copies. Freed copies go last so the cascade observes
// the reputation penalties applied by the same decision.
func (e Effects) Dispatch(ctx context.Context, intents core.Intents) {
	for _, n := range intents.Notifications {
		if e.Notifier == nil {
			continue
		}

		if err := e.Notifier.Send(ctx, n.PatronID, n.Message, n.Category); err != nil {
			e.warn("notification delivery failed", "patron_id", n.PatronID.String(), "category", n.Category, LogAttrError, err.Error())
		}
	}

	for _, a := range intents.Audits {
		if e.Audit == nil {
			continue
		}

		if err := e.Audit.Record(ctx, a.Category, a.ActorID, a.TargetID, a.Description); err != nil {
			e.warn("audit record failed", "category", a.Category, LogAttrError, err.Error())
		}
	}

	for _, r := range intents.Reputation {
		if e.Patrons == nil {
			continue
		}

		if _, err := e.Patrons.AdjustReputation(ctx, r.PatronID, r.Delta); err != nil {
			e.warn("reputation adjustment failed", "patron_id", r.PatronID.String(), "delta", r.Delta, LogAttrError, err.Error())
		}
	}

	for _, f := range intents.FreedCopies {
		if e.Availability == nil {
			continue
		}

		e.Availability.CopyBecameAvailable(ctx, f.ItemID, f.CopyID)
	}
}

func (e Effects) warn(msg string, args ...any) {
	if e.Logger != nil {
		e.Logger.Warn(msg, args...)
	}
}
