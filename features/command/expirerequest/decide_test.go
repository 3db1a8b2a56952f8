package expirerequest_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/expirerequest"
)

func Test_Decide_ExpiresDuePendingRequest(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	request := core.BorrowRequest{
		ID:        uuid.New(),
		PatronID:  uuid.New(),
		Status:    core.RequestPending,
		ExpiresAt: now.Add(-time.Hour),
	}

	result := expirerequest.Decide(request, now)

	require.NoError(t, result.HasError())
	assert.True(t, result.HasStateChange())
	require.Len(t, result.Intents.Notifications, 1)
	assert.Equal(t, core.NotifyRequestExpired, result.Intents.Notifications[0].Category)
	assert.Empty(t, result.Intents.Reputation, "request expiry carries no penalty")
}

func Test_Decide_ExpiryExactlyAtDeadlineFires(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	request := core.BorrowRequest{ID: uuid.New(), Status: core.RequestPending, ExpiresAt: now}

	result := expirerequest.Decide(request, now)

	assert.True(t, result.HasStateChange())
}

func Test_Decide_TerminalRequestIsIdempotent(t *testing.T) {
	for _, status := range []core.RequestStatus{
		core.RequestApproved, core.RequestCanceled, core.RequestRejected, core.RequestExpired,
	} {
		request := core.BorrowRequest{
			ID:        uuid.New(),
			Status:    status,
			ExpiresAt: time.Now().Add(-time.Hour),
		}

		result := expirerequest.Decide(request, time.Now())

		require.NoError(t, result.HasError())
		assert.False(t, result.HasStateChange(), "status %s", status)
	}
}

func Test_Decide_NotYetDueIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	request := core.BorrowRequest{ID: uuid.New(), Status: core.RequestPending, ExpiresAt: now.Add(time.Hour)}

	result := expirerequest.Decide(request, now)

	require.NoError(t, result.HasError())
	assert.False(t, result.HasStateChange())
}
