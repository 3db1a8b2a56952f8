package patronloans

import (
	"time"

	"github.com/lendkit/circulation-go/core"
)

// ProjectPatronLoans implements the query logic over the patron's ongoing
// loans. Pure: the handler reads the records and supplies the query instant.
//
// Query logic:
//
//	GIVEN: a patron's ongoing borrow records
//	WHEN: LoansByPatron is executed
//	THEN: each loan is listed with its due date and derived overdue state
func ProjectPatronLoans(records []core.BorrowRecord, query Query, now time.Time) PatronLoans {
	loans := make([]LoanInfo, 0, len(records))

	for _, record := range records {
		info := LoanInfo{
			RecordID: record.ID,
			CopyID:   record.CopyID,
			DueDate:  record.DueDate,
			Overdue:  record.IsOverdue(now),
		}
		if info.Overdue {
			info.DaysOverdue = core.DaysBetween(record.DueDate, now)
		}

		loans = append(loans, info)
	}

	return PatronLoans{
		PatronID: query.PatronID,
		Loans:    loans,
		Count:    len(loans),
	}
}
