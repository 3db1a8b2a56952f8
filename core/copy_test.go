package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lendkit/circulation-go/core"
)

func Test_Copy_CanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    core.CopyStatus
		to      core.CopyStatus
		allowed bool
	}{
		{name: "available to reserved on approval", from: core.CopyAvailable, to: core.CopyReserved, allowed: true},
		{name: "reserved to checked out on handover", from: core.CopyReserved, to: core.CopyCheckedOut, allowed: true},
		{name: "reserved back to available on cancel or expiry", from: core.CopyReserved, to: core.CopyAvailable, allowed: true},
		{name: "checked out to available on return", from: core.CopyCheckedOut, to: core.CopyAvailable, allowed: true},
		{name: "checked out to retired on poor return", from: core.CopyCheckedOut, to: core.CopyRetired, allowed: true},
		{name: "available straight to checked out is forbidden", from: core.CopyAvailable, to: core.CopyCheckedOut, allowed: false},
		{name: "retired is terminal", from: core.CopyRetired, to: core.CopyAvailable, allowed: false},
		{name: "lost copy can resurface", from: core.CopyLost, to: core.CopyAvailable, allowed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := core.Copy{ID: uuid.New(), Status: tc.from}

			assert.Equal(t, tc.allowed, c.CanTransition(tc.to))
		})
	}
}

func Test_Copy_InService(t *testing.T) {
	assert.True(t, core.Copy{Status: core.CopyAvailable}.InService())
	assert.True(t, core.Copy{Status: core.CopyCheckedOut}.InService())
	assert.False(t, core.Copy{Status: core.CopyRetired}.InService())
	assert.False(t, core.Copy{Status: core.CopyLost}.InService())
}

func Test_BorrowRecord_IsOverdue_DerivedNotPersisted(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	ongoing := core.BorrowRecord{Status: core.RecordOngoing, DueDate: now.AddDate(0, 0, -1)}
	returned := core.BorrowRecord{Status: core.RecordReturned, DueDate: now.AddDate(0, 0, -1)}
	notDueYet := core.BorrowRecord{Status: core.RecordOngoing, DueDate: now.AddDate(0, 0, 1)}

	assert.True(t, ongoing.IsOverdue(now))
	assert.False(t, returned.IsOverdue(now))
	assert.False(t, notDueYet.IsOverdue(now))
}

func Test_BuildReservation_ExpiryFollowsPolicyWindow(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	reservation := core.BuildReservation(uuid.New(), uuid.New(), uuid.New(), "hash", 14, now, testPolicy())

	assert.Equal(t, core.ReservationAwaitingPickup, reservation.Status)
	assert.Equal(t, core.ToOccurredAt(now.AddDate(0, 0, 2)), reservation.ExpiresAt)
	assert.False(t, reservation.IsTerminal())
}
