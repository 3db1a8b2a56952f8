package core

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle status of a borrow request.
type RequestStatus string

// Borrow request lifecycle statuses. Canceled, rejected, and expired are
// terminal; approved is superseded by exactly one reservation.
const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestCanceled RequestStatus = "canceled"
	RequestRejected RequestStatus = "rejected"
	RequestExpired  RequestStatus = "expired"
)

// BorrowRequest represents a patron's intent to borrow an item. It is not yet
// bound to a specific copy; approval binds it by spawning a reservation.
type BorrowRequest struct {
	ID                    uuid.UUID
	PatronID              uuid.UUID
	ItemID                uuid.UUID
	RequestedDurationDays int
	Status                RequestStatus
	ExpiresAt             time.Time
	RejectionReason       string
	CreatedAt             time.Time
}

// IsTerminal reports whether the request can no longer change state.
func (r BorrowRequest) IsTerminal() bool {
	return r.Status != RequestPending
}

// BuildBorrowRequest creates a pending borrow request expiring after the
// policy-configured request window.
func BuildBorrowRequest(patronID uuid.UUID, itemID uuid.UUID, durationDays int, now time.Time, policy Policy) BorrowRequest {
	return BorrowRequest{
		ID:                    uuid.New(),
		PatronID:              patronID,
		ItemID:                itemID,
		RequestedDurationDays: durationDays,
		Status:                RequestPending,
		ExpiresAt:             ToOccurredAt(now.AddDate(0, 0, policy.RequestExpiryDays)),
		CreatedAt:             ToOccurredAt(now),
	}
}
