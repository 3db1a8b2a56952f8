package joinwaitlist_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/joinwaitlist"
)

func Test_Decide_QueuesPatronForItem(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	command := joinwaitlist.BuildCommand(uuid.New(), uuid.New(), 14)

	decision := joinwaitlist.Decide(command, true, false, now)

	require.NoError(t, decision.Result.HasError())
	assert.Equal(t, command.PatronID, decision.Entry.PatronID)
	assert.Equal(t, command.ItemID, decision.Entry.ItemID)
	assert.Equal(t, 14, decision.Entry.RequestedDurationDays)
	assert.Equal(t, now, decision.Entry.EnqueuedAt)
	require.Len(t, decision.Result.Intents.Audits, 1)
	assert.Equal(t, core.AuditWaitlistJoined, decision.Result.Intents.Audits[0].Category)
}

func Test_Decide_RepeatJoinIsIdempotent(t *testing.T) {
	command := joinwaitlist.BuildCommand(uuid.New(), uuid.New(), 14)

	decision := joinwaitlist.Decide(command, true, true, time.Now())

	require.NoError(t, decision.Result.HasError())
	assert.False(t, decision.Result.HasStateChange())
}

func Test_Decide_RejectsUnknownItem(t *testing.T) {
	command := joinwaitlist.BuildCommand(uuid.New(), uuid.New(), 14)

	decision := joinwaitlist.Decide(command, false, false, time.Now())

	assert.ErrorIs(t, decision.Result.HasError(), core.ErrItemUnavailable)
}

func Test_Decide_RejectsNonPositiveDuration(t *testing.T) {
	command := joinwaitlist.BuildCommand(uuid.New(), uuid.New(), 0)

	decision := joinwaitlist.Decide(command, true, false, time.Now())

	assert.ErrorIs(t, decision.Result.HasError(), core.ErrInvalidState)
}
