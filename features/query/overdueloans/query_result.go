package overdueloans

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
)

// OverdueInfo describes one overdue loan in the query result.
type OverdueInfo struct {
	RecordID    uuid.UUID
	PatronID    uuid.UUID
	CopyID      uuid.UUID
	DueDate     time.Time
	DaysOverdue int
	AccruedFine core.Cents
}

// OverdueLoans is the query result, most overdue first.
type OverdueLoans struct {
	Loans []OverdueInfo
	Count int
}
