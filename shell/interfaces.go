package shell

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
)

// Reader provides the read operations shared by plain storage access and
// transactions. Reads inside a transaction observe its uncommitted writes.
type Reader interface {
	GetCopy(ctx context.Context, id uuid.UUID) (core.Copy, error)

	// FindAvailableCopy returns the available copy of the item that has been
	// available longest, ties broken by copy ID. Returns core.ErrNoCopyAvailable
	// when every copy is reserved, checked out, lost, or retired.
	FindAvailableCopy(ctx context.Context, itemID uuid.UUID) (core.Copy, error)

	GetBorrowRequest(ctx context.Context, id uuid.UUID) (core.BorrowRequest, error)
	GetReservation(ctx context.Context, id uuid.UUID) (core.Reservation, error)
	GetBorrowRecord(ctx context.Context, id uuid.UUID) (core.BorrowRecord, error)
	GetFine(ctx context.Context, id uuid.UUID) (core.Fine, error)
	GetWaitlistEntry(ctx context.Context, id uuid.UUID) (core.WaitlistEntry, error)

	HasWaitlistEntry(ctx context.Context, patronID uuid.UUID, itemID uuid.UUID) (bool, error)

	// ListWaitlist returns all entries for an item, oldest enqueued first,
	// ties broken by entry ID.
	ListWaitlist(ctx context.Context, itemID uuid.UUID) ([]core.WaitlistEntry, error)

	// ListDueRequests returns pending borrow requests with ExpiresAt at or
	// before asOf, oldest expiry first, at most limit rows.
	ListDueRequests(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRequest, error)

	// ListDueReservations returns awaiting-pickup reservations with ExpiresAt
	// at or before asOf, oldest expiry first, at most limit rows.
	ListDueReservations(ctx context.Context, asOf time.Time, limit int) ([]core.Reservation, error)

	ListOngoingRecordsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.BorrowRecord, error)
	ListOverdueRecords(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRecord, error)
	ListOpenReservationsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Reservation, error)
	ListUnpaidFinesByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Fine, error)
}

// Transaction extends Reader with the write operations available inside
// WithinTransaction. Transition methods are conditional writes: they only
// succeed when the record still is in the expected source status and return
// ErrTransactionConflict otherwise, so a lost race is detected by the losing
// writer instead of silently overwriting.
type Transaction interface {
	Reader

	InsertCopy(ctx context.Context, c core.Copy) error
	TransitionCopy(ctx context.Context, id uuid.UUID, from core.CopyStatus, to core.CopyStatus) error

	InsertBorrowRequest(ctx context.Context, r core.BorrowRequest) error
	TransitionRequest(ctx context.Context, id uuid.UUID, from core.RequestStatus, to core.RequestStatus, rejectionReason string) error

	InsertReservation(ctx context.Context, r core.Reservation) error
	TransitionReservation(ctx context.Context, id uuid.UUID, from core.ReservationStatus, to core.ReservationStatus) error

	InsertBorrowRecord(ctx context.Context, r core.BorrowRecord) error

	// CloseBorrowRecord finalizes an ongoing loan with its return date,
	// condition, terminal status, and optional fine reference.
	CloseBorrowRecord(ctx context.Context, id uuid.UUID, to core.RecordStatus, returnDate time.Time, condition core.ReturnCondition, fineID uuid.UUID) error

	InsertFine(ctx context.Context, f core.Fine) error
	SettleFine(ctx context.Context, id uuid.UUID, to core.FineStatus, settledAt time.Time) error

	InsertWaitlistEntry(ctx context.Context, e core.WaitlistEntry) error
	DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error
}

// Storage is the single logical data store the circulation engine writes to.
// WithinTransaction runs fn atomically: every write commits or none does, and
// a partial state is never observable. fn returning an error rolls back.
type Storage interface {
	Reader
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Catalog is the external catalog collaborator, consulted only for early
// rejection; allocation correctness is enforced by the copy table itself.
type Catalog interface {
	ItemExists(ctx context.Context, itemID uuid.UUID) (bool, error)
	ActiveCopyCount(ctx context.Context, itemID uuid.UUID) (int, error)
}

// PatronDirectory is the external identity collaborator. The circulation
// engine is the only writer of the reputation index but the directory owns it.
type PatronDirectory interface {
	GetPatronStanding(ctx context.Context, patronID uuid.UUID) (core.PatronStanding, error)
	AdjustReputation(ctx context.Context, patronID uuid.UUID, delta int) (int, error)
}

// PolicySource supplies the read-only policy snapshot. Implementations wrap
// collaborator failures in core.ErrPolicyUnavailable.
type PolicySource interface {
	Current(ctx context.Context) (core.Policy, error)
}

// Notifier is the outbound notification gateway. Fire-and-forget: a delivery
// failure is logged by the dispatcher and never propagated.
type Notifier interface {
	Send(ctx context.Context, patronID uuid.UUID, message string, category string) error
}

// AuditSink records actions for the audit trail, same contract as Notifier.
type AuditSink interface {
	Record(ctx context.Context, category string, actorID uuid.UUID, targetID uuid.UUID, description string) error
}

// AvailabilitySignal is invoked after a transaction that freed a copy commits.
// The waitlist cascade processor implements it; NopAvailabilitySignal is used
// where no cascade is wired.
type AvailabilitySignal interface {
	CopyBecameAvailable(ctx context.Context, itemID uuid.UUID, copyID uuid.UUID)
}

// NopAvailabilitySignal ignores availability announcements.
type NopAvailabilitySignal struct{}

// CopyBecameAvailable does nothing.
func (NopAvailabilitySignal) CopyBecameAvailable(context.Context, uuid.UUID, uuid.UUID) {}

// StaticPolicySource serves a fixed policy snapshot, for deployments that load
// configuration once at startup and for tests.
type StaticPolicySource struct {
	Policy core.Policy
}

// Current returns the fixed snapshot, or core.ErrPolicyUnavailable when it
// fails validation.
func (s StaticPolicySource) Current(context.Context) (core.Policy, error) {
	if err := s.Policy.Validate(); err != nil {
		return core.Policy{}, core.ErrPolicyUnavailable
	}

	return s.Policy, nil
}
