package waitlistcascade

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// Processor consumes copy-became-available announcements and re-offers the
// copy to the item's waitlist. It implements shell.AvailabilitySignal so it
// can be wired straight into the effects dispatcher.
type Processor struct {
	storage      shell.Storage
	patrons      shell.PatronDirectory
	policySource shell.PolicySource
	effects      shell.Effects
	clock        shell.Clock
	logger       shell.Logger
	metrics      shell.MetricsCollector
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger attaches a logger for per-candidate failure reporting.
func WithLogger(logger shell.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithMetrics attaches a metrics collector counting conversions and skips.
func WithMetrics(metrics shell.MetricsCollector) Option {
	return func(p *Processor) {
		p.metrics = metrics
	}
}

// NewProcessor creates a Processor with optional configuration.
func NewProcessor(
	storage shell.Storage,
	patrons shell.PatronDirectory,
	policySource shell.PolicySource,
	effects shell.Effects,
	clock shell.Clock,
	opts ...Option,
) *Processor {
	processor := &Processor{
		storage:      storage,
		patrons:      patrons,
		policySource: policySource,
		effects:      effects,
		clock:        clock,
	}

	for _, opt := range opts {
		opt(processor)
	}

	return processor
}

// CopyBecameAvailable runs the cascade for a freed copy. It satisfies the
// fire-and-forget availability contract: failures surface only through logs
// and metrics, never to the operation that freed the copy.
func (p *Processor) CopyBecameAvailable(ctx context.Context, itemID uuid.UUID, copyID uuid.UUID) {
	if _, err := p.Run(ctx, itemID, copyID); err != nil {
		p.warn("waitlist cascade aborted", "item_id", itemID.String(), shell.LogAttrError, err.Error())
	}
}

// Run walks the item's waitlist and tries to convert the first eligible entry
// into a reservation for the freed copy. It returns whether a conversion
// happened. An error is only returned when the cascade cannot run at all
// (policy or queue unreadable); per-candidate failures are handled inside the
// loop.
func (p *Processor) Run(ctx context.Context, itemID uuid.UUID, copyID uuid.UUID) (bool, error) {
	policy, err := p.policySource.Current(ctx)
	if err != nil {
		return false, err
	}

	entries, err := p.storage.ListWaitlist(ctx, itemID)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		standing, standingErr := p.patrons.GetPatronStanding(ctx, entry.PatronID)
		if standingErr != nil {
			p.warn("patron standing lookup failed, skipping waitlist entry",
				"patron_id", entry.PatronID.String(), shell.LogAttrError, standingErr.Error())

			continue
		}

		if reason := core.CheckEligibility(standing, policy); reason != core.EligiblePatron {
			p.skip(ctx, entry, string(reason))

			continue
		}

		converted, claimErr := p.claim(ctx, entry, copyID, policy)
		if claimErr != nil {
			p.warn("waitlist claim failed, moving to next entry",
				"patron_id", entry.PatronID.String(), shell.LogAttrError, claimErr.Error())
			p.effects.Dispatch(ctx, core.Intents{
				Notifications: []core.NotificationIntent{{
					PatronID: entry.PatronID,
					Category: core.NotifyWaitlistSkipped,
					Message:  "a copy became available but could not be reserved for you; you keep your place in the queue",
				}},
			})

			continue
		}

		p.count(shell.CascadeConversionsMetric)
		p.effects.Dispatch(ctx, converted)

		return true, nil
	}

	return false, nil
}

// claim atomically binds the freed copy to the waitlisted patron: flip the
// copy to reserved, create the secret-protected reservation, and remove the
// queue entry. Eligibility was just re-verified, so no borrow request is
// involved.
func (p *Processor) claim(
	ctx context.Context,
	entry core.WaitlistEntry,
	copyID uuid.UUID,
	policy core.Policy,
) (core.Intents, error) {
	pickupSecret, err := shell.NewPickupSecret()
	if err != nil {
		return core.Intents{}, err
	}

	secretHash, err := shell.HashPickupSecret(pickupSecret)
	if err != nil {
		return core.Intents{}, err
	}

	reservation := core.BuildReservation(
		uuid.Nil,
		copyID,
		entry.PatronID,
		secretHash,
		entry.RequestedDurationDays,
		p.clock.Now(),
		policy,
	)

	txErr := p.storage.WithinTransaction(ctx, func(txCtx context.Context, tx shell.Transaction) error {
		if claimErr := tx.TransitionCopy(txCtx, copyID, core.CopyAvailable, core.CopyReserved); claimErr != nil {
			return claimErr
		}

		if insErr := tx.InsertReservation(txCtx, reservation); insErr != nil {
			return insErr
		}

		return tx.DeleteWaitlistEntry(txCtx, entry.ID)
	})
	if txErr != nil {
		return core.Intents{}, txErr
	}

	return core.Intents{
		Notifications: []core.NotificationIntent{{
			PatronID: entry.PatronID,
			Category: core.NotifyReservationReady,
			Message: fmt.Sprintf(
				"a copy you waited for is reserved until %s, pickup code: %s",
				reservation.ExpiresAt.Format("2006-01-02"), pickupSecret,
			),
		}},
		Audits: []core.AuditIntent{{
			Category:    core.AuditWaitlistConverted,
			ActorID:     entry.PatronID,
			TargetID:    reservation.ID,
			Description: fmt.Sprintf("waitlist entry %s converted to reservation for copy %s", entry.ID, copyID),
		}},
	}, nil
}

// skip notifies an ineligible patron and retains their entry.
func (p *Processor) skip(ctx context.Context, entry core.WaitlistEntry, reason string) {
	p.count(shell.CascadeSkipsMetric)
	p.effects.Dispatch(ctx, core.Intents{
		Notifications: []core.NotificationIntent{{
			PatronID: entry.PatronID,
			Category: core.NotifyWaitlistSkipped,
			Message:  fmt.Sprintf("a copy became available but was not offered to you: %s", reason),
		}},
	})
}

func (p *Processor) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Processor) count(metric string) {
	if p.metrics != nil {
		p.metrics.IncrementCounter(metric, nil)
	}
}
