package core

import "github.com/google/uuid"

// Notification categories handed to the gateway.
const (
	NotifyRequestExpired     = "request_expired"
	NotifyReservationReady   = "reservation_ready"
	NotifyReservationExpired = "reservation_expired"
	NotifyRequestRejected    = "request_rejected"
	NotifyFineIssued         = "fine_issued"
	NotifyWaitlistSkipped    = "waitlist_skipped"
)

// Audit categories handed to the audit sink.
const (
	AuditRequestSubmitted    = "request_submitted"
	AuditRequestApproved     = "request_approved"
	AuditRequestRejected     = "request_rejected"
	AuditRequestCanceled     = "request_canceled"
	AuditRequestExpired      = "request_expired"
	AuditCopyHandedOver      = "copy_handed_over"
	AuditCopyReturned        = "copy_returned"
	AuditReservationCanceled = "reservation_canceled"
	AuditReservationExpired  = "reservation_expired"
	AuditHandoverFailed      = "handover_failed"
	AuditWaitlistJoined      = "waitlist_joined"
	AuditWaitlistLeft        = "waitlist_left"
	AuditWaitlistConverted   = "waitlist_converted"
	AuditFinePaid            = "fine_paid"
	AuditFineWaived          = "fine_waived"
)

// NotificationIntent asks the gateway to message a patron. Delivery is
// fire-and-forget; a failure never rolls back the transition that emitted it.
type NotificationIntent struct {
	PatronID uuid.UUID
	Category string
	Message  string
}

// AuditIntent asks the audit sink to record an action, same contract as notifications.
type AuditIntent struct {
	Category    string
	ActorID     uuid.UUID
	TargetID    uuid.UUID
	Description string
}

// ReputationIntent adjusts a patron's reputation index through the identity
// collaborator after the transaction commits. Delta is negative for penalties.
type ReputationIntent struct {
	PatronID uuid.UUID
	Delta    int
}

// CopyFreedIntent announces that a copy transitioned to available, feeding the
// waitlist cascade.
type CopyFreedIntent struct {
	ItemID uuid.UUID
	CopyID uuid.UUID
}

// Intents collects the side effects a decision wants dispatched after commit.
type Intents struct {
	Notifications []NotificationIntent
	Audits        []AuditIntent
	Reputation    []ReputationIntent
	FreedCopies   []CopyFreedIntent
}

// Merge combines two intent sets.
func (i Intents) Merge(other Intents) Intents {
	return Intents{
		Notifications: append(i.Notifications, other.Notifications...),
		Audits:        append(i.Audits, other.Audits...),
		Reputation:    append(i.Reputation, other.Reputation...),
		FreedCopies:   append(i.FreedCopies, other.FreedCopies...),
	}
}
