package rejectrequest_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/rejectrequest"
)

func Test_Decide_RejectsPendingRequestWithReason(t *testing.T) {
	request := core.BorrowRequest{
		ID:       uuid.New(),
		PatronID: uuid.New(),
		Status:   core.RequestPending,
	}
	command := rejectrequest.BuildCommand(request.ID, uuid.New(), "item withdrawn from circulation")

	result := rejectrequest.Decide(command, request)

	require.NoError(t, result.HasError())
	assert.True(t, result.HasStateChange())
	require.Len(t, result.Intents.Notifications, 1)
	assert.Equal(t, core.NotifyRequestRejected, result.Intents.Notifications[0].Category)
	require.Len(t, result.Intents.Audits, 1)
	assert.Equal(t, "item withdrawn from circulation", result.Intents.Audits[0].Description)
}

func Test_Decide_RejectsNonPendingRequest(t *testing.T) {
	for _, status := range []core.RequestStatus{
		core.RequestApproved, core.RequestCanceled, core.RequestRejected, core.RequestExpired,
	} {
		request := core.BorrowRequest{ID: uuid.New(), Status: status}
		command := rejectrequest.BuildCommand(request.ID, uuid.New(), "reason")

		result := rejectrequest.Decide(command, request)

		assert.ErrorIs(t, result.HasError(), core.ErrInvalidState, "status %s", status)
	}
}
