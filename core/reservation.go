package core

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the lifecycle status of a reservation.
type ReservationStatus string

// Reservation lifecycle statuses. Every status except awaiting_pickup is
// terminal; handed_over is the only one that produces a borrow record.
const (
	ReservationAwaitingPickup ReservationStatus = "awaiting_pickup"
	ReservationHandedOver     ReservationStatus = "handed_over"
	ReservationHandoverFailed ReservationStatus = "handover_failed"
	ReservationCanceled       ReservationStatus = "canceled"
	ReservationExpired        ReservationStatus = "expired"
)

// Reservation is a time-boxed hold binding one copy to one patron, protected
// by a one-time pickup secret. At most one reservation in awaiting_pickup may
// reference a given copy; creating one atomically flips the copy to reserved.
type Reservation struct {
	ID        uuid.UUID
	RequestID uuid.UUID // zero for cascade-created reservations
	CopyID    uuid.UUID
	PatronID  uuid.UUID

	// SecretHash stores the argon2id hash of the pickup secret. The plaintext
	// is only ever handed to the patron in the pickup notification.
	SecretHash string

	RequestedDurationDays int
	Status                ReservationStatus
	ExpiresAt             time.Time
	CreatedAt             time.Time
}

// IsTerminal reports whether the reservation can no longer change state.
func (r Reservation) IsTerminal() bool {
	return r.Status != ReservationAwaitingPickup
}

// BuildReservation creates a reservation in awaiting_pickup bound to the given
// copy, expiring after the policy-configured pickup window. requestID is the
// zero UUID when the reservation comes from a waitlist cascade.
func BuildReservation(
	requestID uuid.UUID,
	copyID uuid.UUID,
	patronID uuid.UUID,
	secretHash string,
	durationDays int,
	now time.Time,
	policy Policy,
) Reservation {
	return Reservation{
		ID:                    uuid.New(),
		RequestID:             requestID,
		CopyID:                copyID,
		PatronID:              patronID,
		SecretHash:            secretHash,
		RequestedDurationDays: durationDays,
		Status:                ReservationAwaitingPickup,
		ExpiresAt:             ToOccurredAt(now.AddDate(0, 0, policy.ReservationExpiryDays)),
		CreatedAt:             ToOccurredAt(now),
	}
}
