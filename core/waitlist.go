package core

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry queues a patron for an item with no available copies. Entries
// are served oldest-first (ties broken by ID) and are deleted on successful
// cascade conversion or explicit withdrawal. Ineligible entries are retained
// and skipped, so a patron keeps their place for the next freed copy.
type WaitlistEntry struct {
	ID                    uuid.UUID
	PatronID              uuid.UUID
	ItemID                uuid.UUID
	RequestedDurationDays int
	EnqueuedAt            time.Time
}

// BuildWaitlistEntry creates a queue entry for the given patron and item.
func BuildWaitlistEntry(patronID uuid.UUID, itemID uuid.UUID, durationDays int, now time.Time) WaitlistEntry {
	return WaitlistEntry{
		ID:                    uuid.New(),
		PatronID:              patronID,
		ItemID:                itemID,
		RequestedDurationDays: durationDays,
		EnqueuedAt:            ToOccurredAt(now),
	}
}
