package patronloans

import (
	"time"

	"github.com/google/uuid"
)

// LoanInfo describes one ongoing loan in the query result.
type LoanInfo struct {
	RecordID    uuid.UUID
	CopyID      uuid.UUID
	DueDate     time.Time
	Overdue     bool
	DaysOverdue int
}

// PatronLoans is the query result: the patron's ongoing loans, soonest due first.
type PatronLoans struct {
	PatronID uuid.UUID
	Loans    []LoanInfo
	Count    int
}
