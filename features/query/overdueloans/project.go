package overdueloans

import (
	"sort"
	"time"

	"github.com/lendkit/circulation-go/core"
)

// ProjectOverdueLoans implements the query logic over the overdue records.
// Pure: the handler reads the records and supplies the query instant and
// policy snapshot.
//
// Query logic:
//
//	GIVEN: ongoing borrow records past their due date
//	WHEN: OverdueLoans is executed
//	THEN: each loan is listed with days overdue and the fine accrued so far,
//	      most overdue first
func ProjectOverdueLoans(records []core.BorrowRecord, now time.Time, policy core.Policy) OverdueLoans {
	loans := make([]OverdueInfo, 0, len(records))

	for _, record := range records {
		if !record.IsOverdue(now) {
			continue
		}

		assessment := core.ComputeFine(record.DueDate, now, core.ReturnNormal, policy)

		loans = append(loans, OverdueInfo{
			RecordID:    record.ID,
			PatronID:    record.PatronID,
			CopyID:      record.CopyID,
			DueDate:     record.DueDate,
			DaysOverdue: assessment.OverdueDays,
			AccruedFine: assessment.Amount,
		})
	}

	sort.Slice(loans, func(i, j int) bool {
		return loans[i].DaysOverdue > loans[j].DaysOverdue
	})

	return OverdueLoans{
		Loans: loans,
		Count: len(loans),
	}
}
