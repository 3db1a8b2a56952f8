package postgresengine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/postgresengine/internal/adapters"
	"github.com/lendkit/circulation-go/shell"
)

// Write operation names, used as the operation label on duration metrics.
const (
	opInsertCopy            = "insert_copy"
	opTransitionCopy        = "transition_copy"
	opInsertBorrowRequest   = "insert_borrow_request"
	opTransitionRequest     = "transition_request"
	opInsertReservation     = "insert_reservation"
	opTransitionReservation = "transition_reservation"
	opInsertBorrowRecord    = "insert_borrow_record"
	opCloseBorrowRecord     = "close_borrow_record"
	opInsertFine            = "insert_fine"
	opSettleFine            = "settle_fine"
	opInsertWaitlistEntry   = "insert_waitlist_entry"
	opDeleteWaitlistEntry   = "delete_waitlist_entry"
	opResolveMissedWrite    = "resolve_missed_write"
)

// storeTransaction implements shell.Transaction on top of an open database
// transaction. Reads delegate to the store's shared read path so they observe
// the transaction's uncommitted writes.
type storeTransaction struct {
	store Store
	tx    adapters.DBTx
}

var _ shell.Transaction = storeTransaction{}

// GetCopy implements shell.Reader inside the transaction.
func (t storeTransaction) GetCopy(ctx context.Context, id uuid.UUID) (core.Copy, error) {
	return t.store.getCopy(ctx, t.tx, id)
}

// FindAvailableCopy implements shell.Reader inside the transaction.
func (t storeTransaction) FindAvailableCopy(ctx context.Context, itemID uuid.UUID) (core.Copy, error) {
	return t.store.findAvailableCopy(ctx, t.tx, itemID)
}

// GetBorrowRequest implements shell.Reader inside the transaction.
func (t storeTransaction) GetBorrowRequest(ctx context.Context, id uuid.UUID) (core.BorrowRequest, error) {
	return t.store.getBorrowRequest(ctx, t.tx, id)
}

// GetReservation implements shell.Reader inside the transaction.
func (t storeTransaction) GetReservation(ctx context.Context, id uuid.UUID) (core.Reservation, error) {
	return t.store.getReservation(ctx, t.tx, id)
}

// GetBorrowRecord implements shell.Reader inside the transaction.
func (t storeTransaction) GetBorrowRecord(ctx context.Context, id uuid.UUID) (core.BorrowRecord, error) {
	return t.store.getBorrowRecord(ctx, t.tx, id)
}

// GetFine implements shell.Reader inside the transaction.
func (t storeTransaction) GetFine(ctx context.Context, id uuid.UUID) (core.Fine, error) {
	return t.store.getFine(ctx, t.tx, id)
}

// GetWaitlistEntry implements shell.Reader inside the transaction.
func (t storeTransaction) GetWaitlistEntry(ctx context.Context, id uuid.UUID) (core.WaitlistEntry, error) {
	return t.store.getWaitlistEntry(ctx, t.tx, id)
}

// HasWaitlistEntry implements shell.Reader inside the transaction.
func (t storeTransaction) HasWaitlistEntry(ctx context.Context, patronID uuid.UUID, itemID uuid.UUID) (bool, error) {
	return t.store.hasWaitlistEntry(ctx, t.tx, patronID, itemID)
}

// ListWaitlist implements shell.Reader inside the transaction.
func (t storeTransaction) ListWaitlist(ctx context.Context, itemID uuid.UUID) ([]core.WaitlistEntry, error) {
	return t.store.listWaitlist(ctx, t.tx, itemID)
}

// ListDueRequests implements shell.Reader inside the transaction.
func (t storeTransaction) ListDueRequests(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRequest, error) {
	return t.store.listDueRequests(ctx, t.tx, asOf, limit)
}

// ListDueReservations implements shell.Reader inside the transaction.
func (t storeTransaction) ListDueReservations(ctx context.Context, asOf time.Time, limit int) ([]core.Reservation, error) {
	return t.store.listDueReservations(ctx, t.tx, asOf, limit)
}

// ListOngoingRecordsByPatron implements shell.Reader inside the transaction.
func (t storeTransaction) ListOngoingRecordsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.BorrowRecord, error) {
	return t.store.listOngoingRecordsByPatron(ctx, t.tx, patronID)
}

// ListOverdueRecords implements shell.Reader inside the transaction.
func (t storeTransaction) ListOverdueRecords(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRecord, error) {
	return t.store.listOverdueRecords(ctx, t.tx, asOf, limit)
}

// ListOpenReservationsByPatron implements shell.Reader inside the transaction.
func (t storeTransaction) ListOpenReservationsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Reservation, error) {
	return t.store.listOpenReservationsByPatron(ctx, t.tx, patronID)
}

// ListUnpaidFinesByPatron implements shell.Reader inside the transaction.
func (t storeTransaction) ListUnpaidFinesByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Fine, error) {
	return t.store.listUnpaidFinesByPatron(ctx, t.tx, patronID)
}

// InsertCopy implements shell.Transaction.
func (t storeTransaction) InsertCopy(ctx context.Context, c core.Copy) error {
	record := goqu.Record{
		colID:         c.ID.String(),
		colItemID:     c.ItemID.String(),
		colCondition:  string(c.Condition),
		colStatus:     string(c.Status),
		colAcquiredAt: c.AcquiredAt,
	}

	return t.insert(ctx, tableCopies, record, opInsertCopy)
}

// TransitionCopy implements shell.Transaction.
func (t storeTransaction) TransitionCopy(ctx context.Context, id uuid.UUID, from core.CopyStatus, to core.CopyStatus) error {
	return t.conditionalUpdate(ctx, tableCopies, id, string(from), goqu.Record{colStatus: string(to)}, opTransitionCopy)
}

// InsertBorrowRequest implements shell.Transaction.
func (t storeTransaction) InsertBorrowRequest(ctx context.Context, r core.BorrowRequest) error {
	record := goqu.Record{
		colID:              r.ID.String(),
		colPatronID:        r.PatronID.String(),
		colItemID:          r.ItemID.String(),
		colDurationDays:    r.RequestedDurationDays,
		colStatus:          string(r.Status),
		colExpiresAt:       r.ExpiresAt,
		colRejectionReason: nullableString(r.RejectionReason),
		colCreatedAt:       r.CreatedAt,
	}

	return t.insert(ctx, tableRequests, record, opInsertBorrowRequest)
}

// TransitionRequest implements shell.Transaction. The rejection reason is only
// written when non-empty, so other transitions keep the column untouched.
func (t storeTransaction) TransitionRequest(
	ctx context.Context,
	id uuid.UUID,
	from core.RequestStatus,
	to core.RequestStatus,
	rejectionReason string,
) error {
	record := goqu.Record{colStatus: string(to)}

	if rejectionReason != "" {
		record[colRejectionReason] = rejectionReason
	}

	return t.conditionalUpdate(ctx, tableRequests, id, string(from), record, opTransitionRequest)
}

// InsertReservation implements shell.Transaction. A zero request ID marks a
// cascade-created reservation and is stored as NULL.
func (t storeTransaction) InsertReservation(ctx context.Context, r core.Reservation) error {
	record := goqu.Record{
		colID:           r.ID.String(),
		colRequestID:    nullableUUID(r.RequestID),
		colCopyID:       r.CopyID.String(),
		colPatronID:     r.PatronID.String(),
		colSecretHash:   r.SecretHash,
		colDurationDays: r.RequestedDurationDays,
		colStatus:       string(r.Status),
		colExpiresAt:    r.ExpiresAt,
		colCreatedAt:    r.CreatedAt,
	}

	return t.insert(ctx, tableReservations, record, opInsertReservation)
}

// TransitionReservation implements shell.Transaction.
func (t storeTransaction) TransitionReservation(ctx context.Context, id uuid.UUID, from core.ReservationStatus, to core.ReservationStatus) error {
	return t.conditionalUpdate(ctx, tableReservations, id, string(from), goqu.Record{colStatus: string(to)}, opTransitionReservation)
}

// InsertBorrowRecord implements shell.Transaction.
func (t storeTransaction) InsertBorrowRecord(ctx context.Context, r core.BorrowRecord) error {
	record := goqu.Record{
		colID:              r.ID.String(),
		colCopyID:          r.CopyID.String(),
		colPatronID:        r.PatronID.String(),
		colDueDate:         r.DueDate,
		colReturnDate:      nullableTime(r.ReturnDate),
		colReturnCondition: nullableString(string(r.ReturnCondition)),
		colStatus:          string(r.Status),
		colFineID:          nullableUUID(r.FineID),
		colCreatedAt:       r.CreatedAt,
	}

	return t.insert(ctx, tableRecords, record, opInsertBorrowRecord)
}

// CloseBorrowRecord implements shell.Transaction. Only an ongoing loan can be
// closed, anything else is a conflict.
func (t storeTransaction) CloseBorrowRecord(
	ctx context.Context,
	id uuid.UUID,
	to core.RecordStatus,
	returnDate time.Time,
	condition core.ReturnCondition,
	fineID uuid.UUID,
) error {
	record := goqu.Record{
		colStatus:          string(to),
		colReturnDate:      returnDate,
		colReturnCondition: string(condition),
		colFineID:          nullableUUID(fineID),
	}

	return t.conditionalUpdate(ctx, tableRecords, id, string(core.RecordOngoing), record, opCloseBorrowRecord)
}

// InsertFine implements shell.Transaction.
func (t storeTransaction) InsertFine(ctx context.Context, f core.Fine) error {
	record := goqu.Record{
		colID:       f.ID.String(),
		colRecordID: f.BorrowRecordID.String(),
		colPatronID: f.PatronID.String(),
		colAmount:   int64(f.Amount),
		colReason:   string(f.Reason),
		colStatus:   string(f.Status),
		colIssuedAt: f.IssuedAt,
		colPaidAt:   nullableTime(f.PaidAt),
	}

	return t.insert(ctx, tableFines, record, opInsertFine)
}

// SettleFine implements shell.Transaction. Only an unpaid fine can be settled.
func (t storeTransaction) SettleFine(ctx context.Context, id uuid.UUID, to core.FineStatus, settledAt time.Time) error {
	record := goqu.Record{colStatus: string(to)}

	if to == core.FinePaid {
		record[colPaidAt] = settledAt
	}

	return t.conditionalUpdate(ctx, tableFines, id, string(core.FineUnpaid), record, opSettleFine)
}

// InsertWaitlistEntry implements shell.Transaction. The unique constraint on
// patron and item surfaces a duplicate join as shell.ErrDuplicateWaitlistEntry.
func (t storeTransaction) InsertWaitlistEntry(ctx context.Context, e core.WaitlistEntry) error {
	record := goqu.Record{
		colID:           e.ID.String(),
		colPatronID:     e.PatronID.String(),
		colItemID:       e.ItemID.String(),
		colDurationDays: e.RequestedDurationDays,
		colEnqueuedAt:   e.EnqueuedAt,
	}

	insertErr := t.insert(ctx, tableWaitlist, record, opInsertWaitlistEntry)
	if insertErr != nil && isUniqueViolation(insertErr) {
		return shell.ErrDuplicateWaitlistEntry
	}

	return insertErr
}

// DeleteWaitlistEntry implements shell.Transaction. Deleting an entry that is
// already gone is a conflict: a concurrent cascade or withdrawal won the race.
func (t storeTransaction) DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error {
	stmt := builder().
		Delete(t.store.table(tableWaitlist)).
		Where(goqu.Ex{colID: id.String()})

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		t.store.logError(logMsgBuildQueryFailed, toSQLErr)

		return toSQLErr
	}

	rowsAffected, execErr := t.store.executeStatement(ctx, t.tx, sqlQuery, opDeleteWaitlistEntry)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		t.store.recordConflict(tableWaitlist)

		return shell.ErrTransactionConflict
	}

	return nil
}

func (t storeTransaction) insert(ctx context.Context, table string, record goqu.Record, operation string) error {
	stmt := builder().
		Insert(t.store.table(table)).
		Rows(record)

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		t.store.logError(logMsgBuildQueryFailed, toSQLErr)

		return toSQLErr
	}

	_, execErr := t.store.executeStatement(ctx, t.tx, sqlQuery, operation)

	return execErr
}

// conditionalUpdate performs the guarded status transition: the UPDATE only
// matches when the row still carries the expected source status. Zero rows
// affected means either the row is gone (not found) or another writer moved
// it first (conflict); a follow-up existence check tells the two apart.
func (t storeTransaction) conditionalUpdate(
	ctx context.Context,
	table string,
	id uuid.UUID,
	fromStatus string,
	record goqu.Record,
	operation string,
) error {
	stmt := builder().
		Update(t.store.table(table)).
		Set(record).
		Where(goqu.Ex{colID: id.String(), colStatus: fromStatus})

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		t.store.logError(logMsgBuildQueryFailed, toSQLErr)

		return toSQLErr
	}

	rowsAffected, execErr := t.store.executeStatement(ctx, t.tx, sqlQuery, operation)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return t.resolveMissedWrite(ctx, table, id)
	}

	return nil
}

func (t storeTransaction) resolveMissedWrite(ctx context.Context, table string, id uuid.UUID) error {
	stmt := builder().
		From(t.store.table(table)).
		Select(colID).
		Where(goqu.Ex{colID: id.String()})

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		t.store.logError(logMsgBuildQueryFailed, toSQLErr)

		return toSQLErr
	}

	rows, queryErr := t.store.executeQuery(ctx, t.tx, sqlQuery, opResolveMissedWrite)
	if queryErr != nil {
		return queryErr
	}
	defer t.store.closeRows(rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return rowsErr
		}

		return core.ErrNotFound
	}

	t.store.recordConflict(table)

	return shell.ErrTransactionConflict
}

// nullableString maps the empty string to NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

// nullableTime maps the zero time to NULL.
func nullableTime(ts time.Time) any {
	if ts.IsZero() {
		return nil
	}

	return ts
}

// nullableUUID maps the zero UUID to NULL.
func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}

	return id.String()
}
