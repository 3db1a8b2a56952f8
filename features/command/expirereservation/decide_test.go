package expirereservation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/expirereservation"
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

func lapsedReservation(now time.Time) (core.Reservation, core.Copy) {
	copy := core.Copy{ID: uuid.New(), ItemID: uuid.New(), Status: core.CopyReserved}
	reservation := core.Reservation{
		ID:        uuid.New(),
		CopyID:    copy.ID,
		PatronID:  uuid.New(),
		Status:    core.ReservationAwaitingPickup,
		ExpiresAt: now.Add(-time.Hour),
	}

	return reservation, copy
}

func Test_Decide_ExpiryFreesCopyPenalizesAndNotifies(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	reservation, copy := lapsedReservation(now)

	result := expirereservation.Decide(reservation, copy, now, testPolicy())

	require.NoError(t, result.HasError())
	assert.True(t, result.HasStateChange())
	require.Len(t, result.Intents.Reputation, 1)
	assert.Equal(t, -2, result.Intents.Reputation[0].Delta)
	require.Len(t, result.Intents.FreedCopies, 1)
	assert.Equal(t, copy.ItemID, result.Intents.FreedCopies[0].ItemID)
	require.Len(t, result.Intents.Notifications, 1)
	assert.Equal(t, core.NotifyReservationExpired, result.Intents.Notifications[0].Category)
}

func Test_Decide_TerminalReservationIsIdempotent(t *testing.T) {
	now := time.Now()

	for _, status := range []core.ReservationStatus{
		core.ReservationHandedOver, core.ReservationHandoverFailed,
		core.ReservationCanceled, core.ReservationExpired,
	} {
		reservation, copy := lapsedReservation(now)
		reservation.Status = status

		result := expirereservation.Decide(reservation, copy, now, testPolicy())

		require.NoError(t, result.HasError())
		assert.False(t, result.HasStateChange(), "status %s", status)
	}
}

func Test_Decide_NotYetDueIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	reservation, copy := lapsedReservation(now)
	reservation.ExpiresAt = now.Add(time.Hour)

	result := expirereservation.Decide(reservation, copy, now, testPolicy())

	require.NoError(t, result.HasError())
	assert.False(t, result.HasStateChange())
}
