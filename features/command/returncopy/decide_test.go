package returncopy_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/returncopy"
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

func ongoingLoan(due time.Time) (core.BorrowRecord, core.Copy) {
	copy := core.Copy{
		ID:        uuid.New(),
		ItemID:    uuid.New(),
		Condition: core.ConditionGood,
		Status:    core.CopyCheckedOut,
	}
	record := core.BorrowRecord{
		ID:       uuid.New(),
		CopyID:   copy.ID,
		PatronID: uuid.New(),
		DueDate:  due,
		Status:   core.RecordOngoing,
	}

	return record, copy
}

func Test_Decide_OnTimeNormalReturnProducesNoFine(t *testing.T) {
	// arrange
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	record, copy := ongoingLoan(now.AddDate(0, 0, 4))
	command := returncopy.BuildCommand(record.ID, uuid.New(), core.ReturnNormal, true, false)

	// act
	decision := returncopy.Decide(command, record, copy, now, testPolicy())

	// assert
	require.NoError(t, decision.Result.HasError())
	assert.False(t, decision.Fined)
	assert.Equal(t, core.RecordReturned, decision.RecordStatus)
	assert.Equal(t, core.CopyAvailable, decision.CopyTarget)
	require.Len(t, decision.Result.Intents.FreedCopies, 1)
	assert.Equal(t, copy.ItemID, decision.Result.Intents.FreedCopies[0].ItemID)
	assert.Empty(t, decision.Result.Intents.Notifications)
}

func Test_Decide_LateDamagedReturnCombinesLateFeeAndFlatFee(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, 5)
	record, copy := ongoingLoan(due)
	command := returncopy.BuildCommand(record.ID, uuid.New(), core.ReturnDamaged, true, false)

	decision := returncopy.Decide(command, record, copy, now, testPolicy())

	require.NoError(t, decision.Result.HasError())
	require.True(t, decision.Fined)
	assert.Equal(t, core.Cents(100), decision.Fine.Amount, "5 days x 10 plus damaged fee 50")
	assert.Equal(t, core.FineReasonCombined, decision.Fine.Reason)
	assert.Equal(t, core.FineUnpaid, decision.Fine.Status)
	require.Len(t, decision.Result.Intents.Notifications, 1)
	assert.Equal(t, core.NotifyFineIssued, decision.Result.Intents.Notifications[0].Category)
}

func Test_Decide_LostCopyClosesLoanAsLost(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	record, copy := ongoingLoan(now.AddDate(0, 0, 4))
	command := returncopy.BuildCommand(record.ID, uuid.New(), core.ReturnLost, true, false)

	decision := returncopy.Decide(command, record, copy, now, testPolicy())

	require.NoError(t, decision.Result.HasError())
	assert.Equal(t, core.RecordLost, decision.RecordStatus)
	assert.Equal(t, core.CopyLost, decision.CopyTarget, "lost copies never rejoin the pool")
	require.True(t, decision.Fined)
	assert.Equal(t, core.Cents(500), decision.Fine.Amount)
	assert.Equal(t, core.FineReasonLost, decision.Fine.Reason)
	assert.Empty(t, decision.Result.Intents.FreedCopies)
}

func Test_Decide_RetiringKeepsCopyOutOfThePool(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	record, copy := ongoingLoan(now.AddDate(0, 0, 4))
	command := returncopy.BuildCommand(record.ID, uuid.New(), core.ReturnNormal, false, false)

	decision := returncopy.Decide(command, record, copy, now, testPolicy())

	require.NoError(t, decision.Result.HasError())
	assert.Equal(t, core.CopyRetired, decision.CopyTarget)
	assert.Empty(t, decision.Result.Intents.FreedCopies)
}

func Test_Decide_FineCollectedOnTheSpotIssuesPaidFine(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, 2)
	record, copy := ongoingLoan(due)
	command := returncopy.BuildCommand(record.ID, uuid.New(), core.ReturnNormal, true, true)

	decision := returncopy.Decide(command, record, copy, now, testPolicy())

	require.True(t, decision.Fined)
	assert.Equal(t, core.FinePaid, decision.Fine.Status)
	assert.False(t, decision.Fine.PaidAt.IsZero())
}

func Test_Decide_RejectsAlreadyClosedLoan(t *testing.T) {
	for _, status := range []core.RecordStatus{core.RecordReturned, core.RecordLost} {
		record, copy := ongoingLoan(time.Now())
		record.Status = status
		command := returncopy.BuildCommand(record.ID, uuid.New(), core.ReturnNormal, true, false)

		decision := returncopy.Decide(command, record, copy, time.Now(), testPolicy())

		assert.ErrorIs(t, decision.Result.HasError(), core.ErrInvalidState, "status %s", status)
	}
}

func Test_Decide_RejectsUnknownCondition(t *testing.T) {
	record, copy := ongoingLoan(time.Now())
	command := returncopy.BuildCommand(record.ID, uuid.New(), core.ReturnCondition("pristine"), true, false)

	decision := returncopy.Decide(command, record, copy, time.Now(), testPolicy())

	assert.ErrorIs(t, decision.Result.HasError(), core.ErrInvalidState)
}
