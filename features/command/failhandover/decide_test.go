package failhandover_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/failhandover"
)

func awaitingReservation() (core.Reservation, core.Copy) {
	copy := core.Copy{ID: uuid.New(), ItemID: uuid.New(), Status: core.CopyReserved}
	reservation := core.Reservation{
		ID:       uuid.New(),
		CopyID:   copy.ID,
		PatronID: uuid.New(),
		Status:   core.ReservationAwaitingPickup,
	}

	return reservation, copy
}

func Test_Decide_FailedHandoverFreesCopyWithoutPenalty(t *testing.T) {
	reservation, copy := awaitingReservation()
	command := failhandover.BuildCommand(reservation.ID, uuid.New(), "copy damaged at desk")

	result := failhandover.Decide(command, reservation, copy)

	require.NoError(t, result.HasError())
	assert.Empty(t, result.Intents.Reputation)
	require.Len(t, result.Intents.FreedCopies, 1)
	assert.Equal(t, copy.ID, result.Intents.FreedCopies[0].CopyID)
	require.Len(t, result.Intents.Audits, 1)
	assert.Equal(t, core.AuditHandoverFailed, result.Intents.Audits[0].Category)
	assert.Contains(t, result.Intents.Audits[0].Description, "copy damaged at desk")
}

func Test_Decide_RepeatFailureIsIdempotent(t *testing.T) {
	reservation, copy := awaitingReservation()
	reservation.Status = core.ReservationHandoverFailed
	command := failhandover.BuildCommand(reservation.ID, uuid.New(), "")

	result := failhandover.Decide(command, reservation, copy)

	require.NoError(t, result.HasError())
	assert.False(t, result.HasStateChange())
}

func Test_Decide_RejectsOtherTerminalStatuses(t *testing.T) {
	for _, status := range []core.ReservationStatus{
		core.ReservationHandedOver, core.ReservationCanceled, core.ReservationExpired,
	} {
		reservation, copy := awaitingReservation()
		reservation.Status = status
		command := failhandover.BuildCommand(reservation.ID, uuid.New(), "")

		result := failhandover.Decide(command, reservation, copy)

		assert.ErrorIs(t, result.HasError(), core.ErrInvalidState, "status %s", status)
	}
}
