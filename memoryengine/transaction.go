package memoryengine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// transaction is the transactional view handed to WithinTransaction callbacks.
// The store mutex is held for the whole transaction, so it reads and writes
// the live maps directly; rollback is the store's snapshot restore.
type transaction struct {
	store *Store
}

var _ shell.Transaction = (*transaction)(nil)

func (t *transaction) GetCopy(ctx context.Context, id uuid.UUID) (core.Copy, error) {
	return t.store.getCopy(id)
}

func (t *transaction) FindAvailableCopy(ctx context.Context, itemID uuid.UUID) (core.Copy, error) {
	return t.store.findAvailableCopy(itemID)
}

func (t *transaction) GetBorrowRequest(ctx context.Context, id uuid.UUID) (core.BorrowRequest, error) {
	return t.store.getBorrowRequest(id)
}

func (t *transaction) GetReservation(ctx context.Context, id uuid.UUID) (core.Reservation, error) {
	return t.store.getReservation(id)
}

func (t *transaction) GetBorrowRecord(ctx context.Context, id uuid.UUID) (core.BorrowRecord, error) {
	return t.store.getBorrowRecord(id)
}

func (t *transaction) GetFine(ctx context.Context, id uuid.UUID) (core.Fine, error) {
	return t.store.getFine(id)
}

func (t *transaction) GetWaitlistEntry(ctx context.Context, id uuid.UUID) (core.WaitlistEntry, error) {
	return t.store.getWaitlistEntry(id)
}

func (t *transaction) HasWaitlistEntry(ctx context.Context, patronID uuid.UUID, itemID uuid.UUID) (bool, error) {
	return t.store.hasWaitlistEntry(patronID, itemID), nil
}

func (t *transaction) ListWaitlist(ctx context.Context, itemID uuid.UUID) ([]core.WaitlistEntry, error) {
	return t.store.listWaitlist(itemID), nil
}

func (t *transaction) ListDueRequests(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRequest, error) {
	return t.store.listDueRequests(asOf, limit), nil
}

func (t *transaction) ListDueReservations(ctx context.Context, asOf time.Time, limit int) ([]core.Reservation, error) {
	return t.store.listDueReservations(asOf, limit), nil
}

func (t *transaction) ListOngoingRecordsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.BorrowRecord, error) {
	return t.store.listOngoingRecordsByPatron(patronID), nil
}

func (t *transaction) ListOverdueRecords(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRecord, error) {
	return t.store.listOverdueRecords(asOf, limit), nil
}

func (t *transaction) ListOpenReservationsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Reservation, error) {
	return t.store.listOpenReservationsByPatron(patronID), nil
}

func (t *transaction) ListUnpaidFinesByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Fine, error) {
	return t.store.listUnpaidFinesByPatron(patronID), nil
}

func (t *transaction) InsertCopy(ctx context.Context, c core.Copy) error {
	t.store.copies[c.ID] = c

	return nil
}

func (t *transaction) TransitionCopy(ctx context.Context, id uuid.UUID, from core.CopyStatus, to core.CopyStatus) error {
	c, ok := t.store.copies[id]
	if !ok {
		return core.ErrNotFound
	}

	if c.Status != from {
		return shell.ErrTransactionConflict
	}

	c.Status = to
	t.store.copies[id] = c

	return nil
}

func (t *transaction) InsertBorrowRequest(ctx context.Context, r core.BorrowRequest) error {
	t.store.requests[r.ID] = r

	return nil
}

func (t *transaction) TransitionRequest(
	ctx context.Context,
	id uuid.UUID,
	from core.RequestStatus,
	to core.RequestStatus,
	rejectionReason string,
) error {
	r, ok := t.store.requests[id]
	if !ok {
		return core.ErrNotFound
	}

	if r.Status != from {
		return shell.ErrTransactionConflict
	}

	r.Status = to
	if rejectionReason != "" {
		r.RejectionReason = rejectionReason
	}
	t.store.requests[id] = r

	return nil
}

func (t *transaction) InsertReservation(ctx context.Context, r core.Reservation) error {
	t.store.reservations[r.ID] = r

	return nil
}

func (t *transaction) TransitionReservation(
	ctx context.Context,
	id uuid.UUID,
	from core.ReservationStatus,
	to core.ReservationStatus,
) error {
	r, ok := t.store.reservations[id]
	if !ok {
		return core.ErrNotFound
	}

	if r.Status != from {
		return shell.ErrTransactionConflict
	}

	r.Status = to
	t.store.reservations[id] = r

	return nil
}

func (t *transaction) InsertBorrowRecord(ctx context.Context, r core.BorrowRecord) error {
	t.store.records[r.ID] = r

	return nil
}

func (t *transaction) CloseBorrowRecord(
	ctx context.Context,
	id uuid.UUID,
	to core.RecordStatus,
	returnDate time.Time,
	condition core.ReturnCondition,
	fineID uuid.UUID,
) error {
	r, ok := t.store.records[id]
	if !ok {
		return core.ErrNotFound
	}

	if r.Status != core.RecordOngoing {
		return shell.ErrTransactionConflict
	}

	r.Status = to
	r.ReturnDate = core.ToOccurredAt(returnDate)
	r.ReturnCondition = condition
	r.FineID = fineID
	t.store.records[id] = r

	return nil
}

func (t *transaction) InsertFine(ctx context.Context, f core.Fine) error {
	t.store.fines[f.ID] = f

	return nil
}

func (t *transaction) SettleFine(ctx context.Context, id uuid.UUID, to core.FineStatus, settledAt time.Time) error {
	f, ok := t.store.fines[id]
	if !ok {
		return core.ErrNotFound
	}

	if f.Status != core.FineUnpaid {
		return shell.ErrTransactionConflict
	}

	f.Status = to
	if to == core.FinePaid {
		f.PaidAt = core.ToOccurredAt(settledAt)
	}
	t.store.fines[id] = f

	return nil
}

func (t *transaction) InsertWaitlistEntry(ctx context.Context, e core.WaitlistEntry) error {
	if t.store.hasWaitlistEntry(e.PatronID, e.ItemID) {
		return shell.ErrDuplicateWaitlistEntry
	}

	t.store.waitlist[e.ID] = e

	return nil
}

func (t *transaction) DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.store.waitlist[id]; !ok {
		return shell.ErrTransactionConflict
	}

	delete(t.store.waitlist, id)

	return nil
}
