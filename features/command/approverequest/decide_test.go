package approverequest_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/approverequest"
)

func testPolicy() core.Policy {
	return core.Policy{
		LateFeePerDay:          10,
		DamagedFee:             50,
		LostFee:                500,
		RequestExpiryDays:      3,
		ReservationExpiryDays:  2,
		MinReputationRequired:  5,
		MaxBorrowItems:         5,
		ReputationLossOnCancel: 1,
		ReputationLossOnExpire: 2,
	}
}

func pendingRequest(itemID uuid.UUID) core.BorrowRequest {
	return core.BorrowRequest{
		ID:                    uuid.New(),
		PatronID:              uuid.New(),
		ItemID:                itemID,
		RequestedDurationDays: 14,
		Status:                core.RequestPending,
	}
}

func availableCopy(itemID uuid.UUID) core.Copy {
	return core.Copy{
		ID:        uuid.New(),
		ItemID:    itemID,
		Condition: core.ConditionGood,
		Status:    core.CopyAvailable,
	}
}

func Test_Decide_ClaimsCopyAndCreatesReservation(t *testing.T) {
	// arrange
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	itemID := uuid.New()
	request := pendingRequest(itemID)
	copy := availableCopy(itemID)
	command := approverequest.BuildCommand(request.ID, uuid.New())

	// act
	decision := approverequest.Decide(command, request, copy, "plain-secret", "hashed", now, testPolicy())

	// assert
	require.NoError(t, decision.Result.HasError())
	reservation := decision.Reservation
	assert.Equal(t, request.ID, reservation.RequestID)
	assert.Equal(t, copy.ID, reservation.CopyID)
	assert.Equal(t, request.PatronID, reservation.PatronID)
	assert.Equal(t, "hashed", reservation.SecretHash)
	assert.Equal(t, 14, reservation.RequestedDurationDays)
	assert.Equal(t, core.ReservationAwaitingPickup, reservation.Status)
	assert.Equal(t, now.AddDate(0, 0, 2), reservation.ExpiresAt)
}

func Test_Decide_PickupNotificationCarriesPlaintextSecretOnly(t *testing.T) {
	itemID := uuid.New()
	request := pendingRequest(itemID)
	command := approverequest.BuildCommand(request.ID, uuid.New())

	decision := approverequest.Decide(
		command, request, availableCopy(itemID), "plain-secret", "hashed", time.Now(), testPolicy())

	require.NoError(t, decision.Result.HasError())
	require.Len(t, decision.Result.Intents.Notifications, 1)
	notification := decision.Result.Intents.Notifications[0]
	assert.Equal(t, core.NotifyReservationReady, notification.Category)
	assert.Equal(t, request.PatronID, notification.PatronID)
	assert.True(t, strings.Contains(notification.Message, "plain-secret"))
	assert.False(t, strings.Contains(notification.Message, "hashed"))
}

func Test_Decide_RejectsNonPendingRequest(t *testing.T) {
	itemID := uuid.New()

	for _, status := range []core.RequestStatus{
		core.RequestApproved, core.RequestCanceled, core.RequestRejected, core.RequestExpired,
	} {
		request := pendingRequest(itemID)
		request.Status = status
		command := approverequest.BuildCommand(request.ID, uuid.New())

		decision := approverequest.Decide(
			command, request, availableCopy(itemID), "s", "h", time.Now(), testPolicy())

		assert.ErrorIs(t, decision.Result.HasError(), core.ErrInvalidState, "status %s", status)
	}
}

func Test_Decide_RejectsCopyThatIsNotAvailable(t *testing.T) {
	itemID := uuid.New()
	request := pendingRequest(itemID)
	copy := availableCopy(itemID)
	copy.Status = core.CopyReserved
	command := approverequest.BuildCommand(request.ID, uuid.New())

	decision := approverequest.Decide(command, request, copy, "s", "h", time.Now(), testPolicy())

	assert.ErrorIs(t, decision.Result.HasError(), core.ErrNoCopyAvailable)
}

func Test_Decide_RejectsCopyOfAnotherItem(t *testing.T) {
	request := pendingRequest(uuid.New())
	command := approverequest.BuildCommand(request.ID, uuid.New())

	decision := approverequest.Decide(
		command, request, availableCopy(uuid.New()), "s", "h", time.Now(), testPolicy())

	assert.ErrorIs(t, decision.Result.HasError(), core.ErrNoCopyAvailable)
}
