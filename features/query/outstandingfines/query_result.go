package outstandingfines

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
)

// FineInfo describes one unpaid fine in the query result.
type FineInfo struct {
	FineID         uuid.UUID
	BorrowRecordID uuid.UUID
	Amount         core.Cents
	Reason         core.FineReason
	IssuedAt       time.Time
}

// OutstandingFines is the query result: the patron's unpaid fines, oldest
// first, and their total.
type OutstandingFines struct {
	PatronID    uuid.UUID
	Fines       []FineInfo
	TotalAmount core.Cents
	Count       int
}
