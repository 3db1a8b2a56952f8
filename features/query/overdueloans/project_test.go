package overdueloans_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/query/overdueloans"
)

func testPolicy() core.Policy {
	return core.Policy{
		LateFeePerDay:         10,
		RequestExpiryDays:     3,
		ReservationExpiryDays: 2,
	}
}

func Test_ProjectOverdueLoans_MostOverdueFirstWithAccruedFine(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	slightlyLate := core.BorrowRecord{
		ID: uuid.New(), PatronID: uuid.New(), CopyID: uuid.New(),
		DueDate: now.AddDate(0, 0, -2), Status: core.RecordOngoing,
	}
	veryLate := core.BorrowRecord{
		ID: uuid.New(), PatronID: uuid.New(), CopyID: uuid.New(),
		DueDate: now.AddDate(0, 0, -9), Status: core.RecordOngoing,
	}

	result := overdueloans.ProjectOverdueLoans(
		[]core.BorrowRecord{slightlyLate, veryLate}, now, testPolicy())

	require.Equal(t, 2, result.Count)
	assert.Equal(t, veryLate.ID, result.Loans[0].RecordID)
	assert.Equal(t, 9, result.Loans[0].DaysOverdue)
	assert.Equal(t, core.Cents(90), result.Loans[0].AccruedFine)
	assert.Equal(t, 2, result.Loans[1].DaysOverdue)
	assert.Equal(t, core.Cents(20), result.Loans[1].AccruedFine)
}

func Test_ProjectOverdueLoans_SkipsClosedAndOnTimeLoans(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	closed := core.BorrowRecord{
		ID: uuid.New(), DueDate: now.AddDate(0, 0, -5), Status: core.RecordReturned,
	}
	onTime := core.BorrowRecord{
		ID: uuid.New(), DueDate: now.AddDate(0, 0, 5), Status: core.RecordOngoing,
	}

	result := overdueloans.ProjectOverdueLoans([]core.BorrowRecord{closed, onTime}, now, testPolicy())

	assert.Equal(t, 0, result.Count)
}
