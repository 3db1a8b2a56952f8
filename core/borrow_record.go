package core

import (
	"time"

	"github.com/google/uuid"
)

// RecordStatus is the persisted lifecycle status of a loan. Overdue is a
// derived reporting state, computed from the due date at read time, and is
// deliberately not part of this enum.
type RecordStatus string

// Borrow record lifecycle statuses.
const (
	RecordOngoing  RecordStatus = "ongoing"
	RecordReturned RecordStatus = "returned"
	RecordLost     RecordStatus = "lost"
)

// ReturnCondition describes the state a copy came back in.
type ReturnCondition string

// Return conditions.
const (
	ReturnNormal  ReturnCondition = "normal"
	ReturnDamaged ReturnCondition = "damaged"
	ReturnLost    ReturnCondition = "lost"
)

// BorrowRecord represents an active or completed loan of a specific copy.
// At most one ongoing record may reference a given copy.
type BorrowRecord struct {
	ID       uuid.UUID
	CopyID   uuid.UUID
	PatronID uuid.UUID

	DueDate         time.Time
	ReturnDate      time.Time // zero while ongoing
	ReturnCondition ReturnCondition
	Status          RecordStatus
	FineID          uuid.UUID // zero when no fine was assessed
	CreatedAt       time.Time
}

// IsTerminal reports whether the loan is closed.
func (r BorrowRecord) IsTerminal() bool {
	return r.Status != RecordOngoing
}

// IsOverdue derives the overdue state of an ongoing loan at the given instant.
func (r BorrowRecord) IsOverdue(now time.Time) bool {
	return r.Status == RecordOngoing && now.After(r.DueDate)
}

// BuildBorrowRecord creates an ongoing loan for the handed-over copy, due
// after the duration the patron originally requested.
func BuildBorrowRecord(copyID uuid.UUID, patronID uuid.UUID, durationDays int, now time.Time) BorrowRecord {
	return BorrowRecord{
		ID:        uuid.New(),
		CopyID:    copyID,
		PatronID:  patronID,
		DueDate:   ToOccurredAt(now.AddDate(0, 0, durationDays)),
		Status:    RecordOngoing,
		CreatedAt: ToOccurredAt(now),
	}
}
