package leavewaitlist_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/leavewaitlist"
)

func Test_Decide_RemovesExistingEntry(t *testing.T) {
	entry := core.WaitlistEntry{ID: uuid.New(), PatronID: uuid.New(), ItemID: uuid.New()}
	command := leavewaitlist.BuildCommand(entry.PatronID, entry.ItemID)

	decision := leavewaitlist.Decide(command, entry, true)

	require.NoError(t, decision.Result.HasError())
	assert.True(t, decision.Result.HasStateChange())
	assert.Equal(t, entry.ID, decision.Entry.ID)
	require.Len(t, decision.Result.Intents.Audits, 1)
	assert.Equal(t, core.AuditWaitlistLeft, decision.Result.Intents.Audits[0].Category)
}

func Test_Decide_MissingEntryIsIdempotent(t *testing.T) {
	command := leavewaitlist.BuildCommand(uuid.New(), uuid.New())

	decision := leavewaitlist.Decide(command, core.WaitlistEntry{}, false)

	require.NoError(t, decision.Result.HasError())
	assert.False(t, decision.Result.HasStateChange())
}
