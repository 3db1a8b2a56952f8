package core

import (
	"time"
)

// Instead of implementing full value objects, alias types and small helpers
// keep the signatures readable ...

// Cents represents a monetary amount in integer cents.
type Cents = int64

// OccurredAt represents when a state change happened.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// DaysBetween returns the number of whole calendar days from `from` to `to`,
// never negative. Both timestamps are compared on their UTC date.
func DaysBetween(from time.Time, to time.Time) int {
	fromDay := from.UTC().Truncate(24 * time.Hour)
	toDay := to.UTC().Truncate(24 * time.Hour)

	days := int(toDay.Sub(fromDay) / (24 * time.Hour))
	if days < 0 {
		return 0
	}

	return days
}
