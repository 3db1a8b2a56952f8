package checkin_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/checkin"
)

func awaitingReservation() core.Reservation {
	return core.Reservation{
		ID:                    uuid.New(),
		RequestID:             uuid.New(),
		CopyID:                uuid.New(),
		PatronID:              uuid.New(),
		SecretHash:            "stored-hash",
		RequestedDurationDays: 14,
		Status:                core.ReservationAwaitingPickup,
	}
}

func Test_Decide_OpensLoanOnCorrectSecret(t *testing.T) {
	// arrange
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	reservation := awaitingReservation()

	// act
	decision := checkin.Decide(reservation, true, now)

	// assert
	require.NoError(t, decision.Result.HasError())
	record := decision.Record
	assert.Equal(t, reservation.CopyID, record.CopyID)
	assert.Equal(t, reservation.PatronID, record.PatronID)
	assert.Equal(t, core.RecordOngoing, record.Status)
	assert.Equal(t, now.AddDate(0, 0, 14), record.DueDate)
	require.Len(t, decision.Result.Intents.Audits, 1)
	assert.Equal(t, core.AuditCopyHandedOver, decision.Result.Intents.Audits[0].Category)
}

func Test_Decide_WrongSecretFails(t *testing.T) {
	decision := checkin.Decide(awaitingReservation(), false, time.Now())

	assert.ErrorIs(t, decision.Result.HasError(), core.ErrInvalidSecret)
	assert.False(t, decision.Result.HasStateChange())
}

func Test_Decide_RejectsNonAwaitingReservation(t *testing.T) {
	for _, status := range []core.ReservationStatus{
		core.ReservationHandedOver, core.ReservationHandoverFailed,
		core.ReservationCanceled, core.ReservationExpired,
	} {
		reservation := awaitingReservation()
		reservation.Status = status

		decision := checkin.Decide(reservation, true, time.Now())

		assert.ErrorIs(t, decision.Result.HasError(), core.ErrInvalidState, "status %s", status)
	}
}

func Test_Decide_StatusIsCheckedBeforeSecret(t *testing.T) {
	reservation := awaitingReservation()
	reservation.Status = core.ReservationExpired

	decision := checkin.Decide(reservation, false, time.Now())

	assert.ErrorIs(t, decision.Result.HasError(), core.ErrInvalidState)
}
