package shell_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
	"github.com/lendkit/circulation-go/testutil/testdoubles"
)

type availabilitySpy struct {
	mu    sync.Mutex
	freed []uuid.UUID
}

func (a *availabilitySpy) CopyBecameAvailable(_ context.Context, _ uuid.UUID, copyID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.freed = append(a.freed, copyID)
}

func Test_Effects_Dispatch_DeliversAllIntentKinds(t *testing.T) {
	notifier := testdoubles.NewNotifierSpy()
	audit := testdoubles.NewAuditSinkSpy()
	patrons := testdoubles.NewPatronDirectoryStub()
	availability := &availabilitySpy{}

	patronID := uuid.New()
	copyID := uuid.New()
	patrons.SetStanding(patronID, core.PatronStanding{Active: true, ReputationIndex: 10})

	effects := shell.Effects{
		Notifier:     notifier,
		Audit:        audit,
		Patrons:      patrons,
		Availability: availability,
	}

	effects.Dispatch(context.Background(), core.Intents{
		Notifications: []core.NotificationIntent{
			{PatronID: patronID, Message: "your reservation expired", Category: core.NotifyReservationExpired},
		},
		Audits: []core.AuditIntent{
			{Category: core.AuditReservationExpired, ActorID: uuid.Nil, TargetID: copyID, Description: "pickup window elapsed"},
		},
		Reputation: []core.ReputationIntent{
			{PatronID: patronID, Delta: -2},
		},
		FreedCopies: []core.CopyFreedIntent{
			{ItemID: uuid.New(), CopyID: copyID},
		},
	})

	require.Len(t, notifier.Sent(), 1)
	require.Len(t, audit.Records(), 1)

	adjustments := patrons.Adjustments()
	require.Len(t, adjustments, 1)
	assert.Equal(t, -2, adjustments[0].Delta)

	require.Len(t, availability.freed, 1)
	assert.Equal(t, copyID, availability.freed[0])
}

func Test_Effects_Dispatch_NilCollaboratorsAreSkipped(t *testing.T) {
	effects := shell.Effects{}

	// Must not panic with every collaborator missing.
	effects.Dispatch(context.Background(), core.Intents{
		Notifications: []core.NotificationIntent{{PatronID: uuid.New(), Message: "m", Category: "c"}},
		Audits:        []core.AuditIntent{{Category: "c"}},
		Reputation:    []core.ReputationIntent{{PatronID: uuid.New(), Delta: -1}},
		FreedCopies:   []core.CopyFreedIntent{{ItemID: uuid.New(), CopyID: uuid.New()}},
	})
}

func Test_Effects_Dispatch_DeliveryFailureIsLoggedNotPropagated(t *testing.T) {
	notifier := testdoubles.NewNotifierSpy()
	notifier.FailWith(errors.New("gateway unreachable"))
	logger := testdoubles.NewLoggerSpy()

	effects := shell.Effects{Notifier: notifier, Logger: logger}

	effects.Dispatch(context.Background(), core.Intents{
		Notifications: []core.NotificationIntent{
			{PatronID: uuid.New(), Message: "your fine was issued", Category: core.NotifyFineIssued},
		},
	})

	warnings := logger.MessagesAt("warn")
	require.Len(t, warnings, 1)
	assert.Equal(t, "notification delivery failed", warnings[0])
}
