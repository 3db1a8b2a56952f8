package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/postgresengine/internal/adapters"
)

// Read operation names, used as the operation label on duration metrics.
const (
	opGetCopy                      = "get_copy"
	opFindAvailableCopy            = "find_available_copy"
	opGetBorrowRequest             = "get_borrow_request"
	opGetReservation               = "get_reservation"
	opGetBorrowRecord              = "get_borrow_record"
	opGetFine                      = "get_fine"
	opGetWaitlistEntry             = "get_waitlist_entry"
	opHasWaitlistEntry             = "has_waitlist_entry"
	opListWaitlist                 = "list_waitlist"
	opListDueRequests              = "list_due_requests"
	opListDueReservations          = "list_due_reservations"
	opListOngoingRecordsByPatron   = "list_ongoing_records_by_patron"
	opListOverdueRecords           = "list_overdue_records"
	opListOpenReservationsByPatron = "list_open_reservations_by_patron"
	opListUnpaidFinesByPatron      = "list_unpaid_fines_by_patron"
)

// GetCopy implements shell.Reader.
func (s Store) GetCopy(ctx context.Context, id uuid.UUID) (core.Copy, error) {
	return s.getCopy(ctx, s.db, id)
}

// FindAvailableCopy implements shell.Reader.
func (s Store) FindAvailableCopy(ctx context.Context, itemID uuid.UUID) (core.Copy, error) {
	return s.findAvailableCopy(ctx, s.db, itemID)
}

// GetBorrowRequest implements shell.Reader.
func (s Store) GetBorrowRequest(ctx context.Context, id uuid.UUID) (core.BorrowRequest, error) {
	return s.getBorrowRequest(ctx, s.db, id)
}

// GetReservation implements shell.Reader.
func (s Store) GetReservation(ctx context.Context, id uuid.UUID) (core.Reservation, error) {
	return s.getReservation(ctx, s.db, id)
}

// GetBorrowRecord implements shell.Reader.
func (s Store) GetBorrowRecord(ctx context.Context, id uuid.UUID) (core.BorrowRecord, error) {
	return s.getBorrowRecord(ctx, s.db, id)
}

// GetFine implements shell.Reader.
func (s Store) GetFine(ctx context.Context, id uuid.UUID) (core.Fine, error) {
	return s.getFine(ctx, s.db, id)
}

// GetWaitlistEntry implements shell.Reader.
func (s Store) GetWaitlistEntry(ctx context.Context, id uuid.UUID) (core.WaitlistEntry, error) {
	return s.getWaitlistEntry(ctx, s.db, id)
}

// HasWaitlistEntry implements shell.Reader.
func (s Store) HasWaitlistEntry(ctx context.Context, patronID uuid.UUID, itemID uuid.UUID) (bool, error) {
	return s.hasWaitlistEntry(ctx, s.db, patronID, itemID)
}

// ListWaitlist implements shell.Reader.
func (s Store) ListWaitlist(ctx context.Context, itemID uuid.UUID) ([]core.WaitlistEntry, error) {
	return s.listWaitlist(ctx, s.db, itemID)
}

// ListDueRequests implements shell.Reader.
func (s Store) ListDueRequests(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRequest, error) {
	return s.listDueRequests(ctx, s.db, asOf, limit)
}

// ListDueReservations implements shell.Reader.
func (s Store) ListDueReservations(ctx context.Context, asOf time.Time, limit int) ([]core.Reservation, error) {
	return s.listDueReservations(ctx, s.db, asOf, limit)
}

// ListOngoingRecordsByPatron implements shell.Reader.
func (s Store) ListOngoingRecordsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.BorrowRecord, error) {
	return s.listOngoingRecordsByPatron(ctx, s.db, patronID)
}

// ListOverdueRecords implements shell.Reader.
func (s Store) ListOverdueRecords(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRecord, error) {
	return s.listOverdueRecords(ctx, s.db, asOf, limit)
}

// ListOpenReservationsByPatron implements shell.Reader.
func (s Store) ListOpenReservationsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Reservation, error) {
	return s.listOpenReservationsByPatron(ctx, s.db, patronID)
}

// ListUnpaidFinesByPatron implements shell.Reader.
func (s Store) ListUnpaidFinesByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Fine, error) {
	return s.listUnpaidFinesByPatron(ctx, s.db, patronID)
}

func copyColumns() []any {
	return []any{colID, colItemID, colCondition, colStatus, colAcquiredAt}
}

func requestColumns() []any {
	return []any{colID, colPatronID, colItemID, colDurationDays, colStatus, colExpiresAt, colRejectionReason, colCreatedAt}
}

func reservationColumns() []any {
	return []any{colID, colRequestID, colCopyID, colPatronID, colSecretHash, colDurationDays, colStatus, colExpiresAt, colCreatedAt}
}

func recordColumns() []any {
	return []any{colID, colCopyID, colPatronID, colDueDate, colReturnDate, colReturnCondition, colStatus, colFineID, colCreatedAt}
}

func fineColumns() []any {
	return []any{colID, colRecordID, colPatronID, colAmount, colReason, colStatus, colIssuedAt, colPaidAt}
}

func waitlistColumns() []any {
	return []any{colID, colPatronID, colItemID, colDurationDays, colEnqueuedAt}
}

func (s Store) getCopy(ctx context.Context, run executor, id uuid.UUID) (core.Copy, error) {
	stmt := builder().
		From(s.table(tableCopies)).
		Select(copyColumns()...).
		Where(goqu.Ex{colID: id.String()})

	return querySingle(ctx, s, run, stmt, opGetCopy, scanCopy)
}

func (s Store) findAvailableCopy(ctx context.Context, run executor, itemID uuid.UUID) (core.Copy, error) {
	stmt := builder().
		From(s.table(tableCopies)).
		Select(copyColumns()...).
		Where(goqu.Ex{colItemID: itemID.String(), colStatus: string(core.CopyAvailable)}).
		Order(goqu.I(colAcquiredAt).Asc(), goqu.I(colID).Asc()).
		Limit(1)

	copyFound, err := querySingle(ctx, s, run, stmt, opFindAvailableCopy, scanCopy)
	if errors.Is(err, core.ErrNotFound) {
		return core.Copy{}, core.ErrNoCopyAvailable
	}

	return copyFound, err
}

func (s Store) getBorrowRequest(ctx context.Context, run executor, id uuid.UUID) (core.BorrowRequest, error) {
	stmt := builder().
		From(s.table(tableRequests)).
		Select(requestColumns()...).
		Where(goqu.Ex{colID: id.String()})

	return querySingle(ctx, s, run, stmt, opGetBorrowRequest, scanBorrowRequest)
}

func (s Store) getReservation(ctx context.Context, run executor, id uuid.UUID) (core.Reservation, error) {
	stmt := builder().
		From(s.table(tableReservations)).
		Select(reservationColumns()...).
		Where(goqu.Ex{colID: id.String()})

	return querySingle(ctx, s, run, stmt, opGetReservation, scanReservation)
}

func (s Store) getBorrowRecord(ctx context.Context, run executor, id uuid.UUID) (core.BorrowRecord, error) {
	stmt := builder().
		From(s.table(tableRecords)).
		Select(recordColumns()...).
		Where(goqu.Ex{colID: id.String()})

	return querySingle(ctx, s, run, stmt, opGetBorrowRecord, scanBorrowRecord)
}

func (s Store) getFine(ctx context.Context, run executor, id uuid.UUID) (core.Fine, error) {
	stmt := builder().
		From(s.table(tableFines)).
		Select(fineColumns()...).
		Where(goqu.Ex{colID: id.String()})

	return querySingle(ctx, s, run, stmt, opGetFine, scanFine)
}

func (s Store) getWaitlistEntry(ctx context.Context, run executor, id uuid.UUID) (core.WaitlistEntry, error) {
	stmt := builder().
		From(s.table(tableWaitlist)).
		Select(waitlistColumns()...).
		Where(goqu.Ex{colID: id.String()})

	return querySingle(ctx, s, run, stmt, opGetWaitlistEntry, scanWaitlistEntry)
}

func (s Store) hasWaitlistEntry(ctx context.Context, run executor, patronID uuid.UUID, itemID uuid.UUID) (bool, error) {
	stmt := builder().
		From(s.table(tableWaitlist)).
		Select(colID).
		Where(goqu.Ex{colPatronID: patronID.String(), colItemID: itemID.String()}).
		Limit(1)

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)

		return false, toSQLErr
	}

	rows, queryErr := s.executeQuery(ctx, run, sqlQuery, opHasWaitlistEntry)
	if queryErr != nil {
		return false, queryErr
	}
	defer s.closeRows(rows)

	found := rows.Next()

	return found, rows.Err()
}

func (s Store) listWaitlist(ctx context.Context, run executor, itemID uuid.UUID) ([]core.WaitlistEntry, error) {
	stmt := builder().
		From(s.table(tableWaitlist)).
		Select(waitlistColumns()...).
		Where(goqu.Ex{colItemID: itemID.String()}).
		Order(goqu.I(colEnqueuedAt).Asc(), goqu.I(colID).Asc())

	return queryMany(ctx, s, run, stmt, opListWaitlist, scanWaitlistEntry)
}

func (s Store) listDueRequests(ctx context.Context, run executor, asOf time.Time, limit int) ([]core.BorrowRequest, error) {
	stmt := builder().
		From(s.table(tableRequests)).
		Select(requestColumns()...).
		Where(
			goqu.Ex{colStatus: string(core.RequestPending)},
			goqu.I(colExpiresAt).Lte(asOf),
		).
		Order(goqu.I(colExpiresAt).Asc()).
		Limit(uint(limit))

	return queryMany(ctx, s, run, stmt, opListDueRequests, scanBorrowRequest)
}

func (s Store) listDueReservations(ctx context.Context, run executor, asOf time.Time, limit int) ([]core.Reservation, error) {
	stmt := builder().
		From(s.table(tableReservations)).
		Select(reservationColumns()...).
		Where(
			goqu.Ex{colStatus: string(core.ReservationAwaitingPickup)},
			goqu.I(colExpiresAt).Lte(asOf),
		).
		Order(goqu.I(colExpiresAt).Asc()).
		Limit(uint(limit))

	return queryMany(ctx, s, run, stmt, opListDueReservations, scanReservation)
}

func (s Store) listOngoingRecordsByPatron(ctx context.Context, run executor, patronID uuid.UUID) ([]core.BorrowRecord, error) {
	stmt := builder().
		From(s.table(tableRecords)).
		Select(recordColumns()...).
		Where(goqu.Ex{colPatronID: patronID.String(), colStatus: string(core.RecordOngoing)}).
		Order(goqu.I(colDueDate).Asc(), goqu.I(colID).Asc())

	return queryMany(ctx, s, run, stmt, opListOngoingRecordsByPatron, scanBorrowRecord)
}

func (s Store) listOverdueRecords(ctx context.Context, run executor, asOf time.Time, limit int) ([]core.BorrowRecord, error) {
	stmt := builder().
		From(s.table(tableRecords)).
		Select(recordColumns()...).
		Where(
			goqu.Ex{colStatus: string(core.RecordOngoing)},
			goqu.I(colDueDate).Lt(asOf),
		).
		Order(goqu.I(colDueDate).Asc()).
		Limit(uint(limit))

	return queryMany(ctx, s, run, stmt, opListOverdueRecords, scanBorrowRecord)
}

func (s Store) listOpenReservationsByPatron(ctx context.Context, run executor, patronID uuid.UUID) ([]core.Reservation, error) {
	stmt := builder().
		From(s.table(tableReservations)).
		Select(reservationColumns()...).
		Where(goqu.Ex{colPatronID: patronID.String(), colStatus: string(core.ReservationAwaitingPickup)}).
		Order(goqu.I(colCreatedAt).Asc(), goqu.I(colID).Asc())

	return queryMany(ctx, s, run, stmt, opListOpenReservationsByPatron, scanReservation)
}

func (s Store) listUnpaidFinesByPatron(ctx context.Context, run executor, patronID uuid.UUID) ([]core.Fine, error) {
	stmt := builder().
		From(s.table(tableFines)).
		Select(fineColumns()...).
		Where(goqu.Ex{colPatronID: patronID.String(), colStatus: string(core.FineUnpaid)}).
		Order(goqu.I(colIssuedAt).Asc(), goqu.I(colID).Asc())

	return queryMany(ctx, s, run, stmt, opListUnpaidFinesByPatron, scanFine)
}

// querySingle runs a select expected to match at most one row and scans it,
// returning core.ErrNotFound when the row does not exist.
func querySingle[T any](
	ctx context.Context,
	s Store,
	run executor,
	stmt *goqu.SelectDataset,
	operation string,
	scan func(rows adapters.DBRows) (T, error),
) (T, error) {

	var empty T

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)

		return empty, toSQLErr
	}

	rows, queryErr := s.executeQuery(ctx, run, sqlQuery, operation)
	if queryErr != nil {
		return empty, queryErr
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return empty, rowsErr
		}

		return empty, core.ErrNotFound
	}

	result, scanErr := scan(rows)
	if scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)

		return empty, scanErr
	}

	return result, nil
}

// queryMany runs a select and scans every row.
func queryMany[T any](
	ctx context.Context,
	s Store,
	run executor,
	stmt *goqu.SelectDataset,
	operation string,
	scan func(rows adapters.DBRows) (T, error),
) ([]T, error) {

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)

		return nil, toSQLErr
	}

	rows, queryErr := s.executeQuery(ctx, run, sqlQuery, operation)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(rows)

	results := make([]T, 0)

	for rows.Next() {
		result, scanErr := scan(rows)
		if scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)

			return nil, scanErr
		}

		results = append(results, result)
	}

	return results, rows.Err()
}

func scanCopy(rows adapters.DBRows) (core.Copy, error) {
	var (
		idRaw, itemIDRaw, condition, status string
		acquiredAt                          time.Time
	)

	if err := rows.Scan(&idRaw, &itemIDRaw, &condition, &status, &acquiredAt); err != nil {
		return core.Copy{}, err
	}

	id, err := uuid.Parse(idRaw)
	if err != nil {
		return core.Copy{}, err
	}

	itemID, err := uuid.Parse(itemIDRaw)
	if err != nil {
		return core.Copy{}, err
	}

	return core.Copy{
		ID:         id,
		ItemID:     itemID,
		Condition:  core.CopyCondition(condition),
		Status:     core.CopyStatus(status),
		AcquiredAt: acquiredAt,
	}, nil
}

func scanBorrowRequest(rows adapters.DBRows) (core.BorrowRequest, error) {
	var (
		idRaw, patronIDRaw, itemIDRaw, status string
		durationDays                          int
		rejectionReason                       sql.NullString
		expiresAt, createdAt                  time.Time
	)

	if err := rows.Scan(&idRaw, &patronIDRaw, &itemIDRaw, &durationDays, &status, &expiresAt, &rejectionReason, &createdAt); err != nil {
		return core.BorrowRequest{}, err
	}

	id, err := uuid.Parse(idRaw)
	if err != nil {
		return core.BorrowRequest{}, err
	}

	patronID, err := uuid.Parse(patronIDRaw)
	if err != nil {
		return core.BorrowRequest{}, err
	}

	itemID, err := uuid.Parse(itemIDRaw)
	if err != nil {
		return core.BorrowRequest{}, err
	}

	return core.BorrowRequest{
		ID:                    id,
		PatronID:              patronID,
		ItemID:                itemID,
		RequestedDurationDays: durationDays,
		Status:                core.RequestStatus(status),
		ExpiresAt:             expiresAt,
		RejectionReason:       rejectionReason.String,
		CreatedAt:             createdAt,
	}, nil
}

func scanReservation(rows adapters.DBRows) (core.Reservation, error) {
	var (
		idRaw, copyIDRaw, patronIDRaw, secretHash, status string
		requestIDRaw                                      sql.NullString
		durationDays                                      int
		expiresAt, createdAt                              time.Time
	)

	if err := rows.Scan(&idRaw, &requestIDRaw, &copyIDRaw, &patronIDRaw, &secretHash, &durationDays, &status, &expiresAt, &createdAt); err != nil {
		return core.Reservation{}, err
	}

	id, err := uuid.Parse(idRaw)
	if err != nil {
		return core.Reservation{}, err
	}

	requestID, err := parseNullableUUID(requestIDRaw)
	if err != nil {
		return core.Reservation{}, err
	}

	copyID, err := uuid.Parse(copyIDRaw)
	if err != nil {
		return core.Reservation{}, err
	}

	patronID, err := uuid.Parse(patronIDRaw)
	if err != nil {
		return core.Reservation{}, err
	}

	return core.Reservation{
		ID:                    id,
		RequestID:             requestID,
		CopyID:                copyID,
		PatronID:              patronID,
		SecretHash:            secretHash,
		RequestedDurationDays: durationDays,
		Status:                core.ReservationStatus(status),
		ExpiresAt:             expiresAt,
		CreatedAt:             createdAt,
	}, nil
}

func scanBorrowRecord(rows adapters.DBRows) (core.BorrowRecord, error) {
	var (
		idRaw, copyIDRaw, patronIDRaw, status string
		returnCondition, fineIDRaw            sql.NullString
		returnDate                            sql.NullTime
		dueDate, createdAt                    time.Time
	)

	if err := rows.Scan(&idRaw, &copyIDRaw, &patronIDRaw, &dueDate, &returnDate, &returnCondition, &status, &fineIDRaw, &createdAt); err != nil {
		return core.BorrowRecord{}, err
	}

	id, err := uuid.Parse(idRaw)
	if err != nil {
		return core.BorrowRecord{}, err
	}

	copyID, err := uuid.Parse(copyIDRaw)
	if err != nil {
		return core.BorrowRecord{}, err
	}

	patronID, err := uuid.Parse(patronIDRaw)
	if err != nil {
		return core.BorrowRecord{}, err
	}

	fineID, err := parseNullableUUID(fineIDRaw)
	if err != nil {
		return core.BorrowRecord{}, err
	}

	return core.BorrowRecord{
		ID:              id,
		CopyID:          copyID,
		PatronID:        patronID,
		DueDate:         dueDate,
		ReturnDate:      returnDate.Time,
		ReturnCondition: core.ReturnCondition(returnCondition.String),
		Status:          core.RecordStatus(status),
		FineID:          fineID,
		CreatedAt:       createdAt,
	}, nil
}

func scanFine(rows adapters.DBRows) (core.Fine, error) {
	var (
		idRaw, recordIDRaw, patronIDRaw, reason, status string
		amount                                          int64
		issuedAt                                        time.Time
		paidAt                                          sql.NullTime
	)

	if err := rows.Scan(&idRaw, &recordIDRaw, &patronIDRaw, &amount, &reason, &status, &issuedAt, &paidAt); err != nil {
		return core.Fine{}, err
	}

	id, err := uuid.Parse(idRaw)
	if err != nil {
		return core.Fine{}, err
	}

	recordID, err := uuid.Parse(recordIDRaw)
	if err != nil {
		return core.Fine{}, err
	}

	patronID, err := uuid.Parse(patronIDRaw)
	if err != nil {
		return core.Fine{}, err
	}

	return core.Fine{
		ID:             id,
		BorrowRecordID: recordID,
		PatronID:       patronID,
		Amount:         core.Cents(amount),
		Reason:         core.FineReason(reason),
		Status:         core.FineStatus(status),
		IssuedAt:       issuedAt,
		PaidAt:         paidAt.Time,
	}, nil
}

func scanWaitlistEntry(rows adapters.DBRows) (core.WaitlistEntry, error) {
	var (
		idRaw, patronIDRaw, itemIDRaw string
		durationDays                  int
		enqueuedAt                    time.Time
	)

	if err := rows.Scan(&idRaw, &patronIDRaw, &itemIDRaw, &durationDays, &enqueuedAt); err != nil {
		return core.WaitlistEntry{}, err
	}

	id, err := uuid.Parse(idRaw)
	if err != nil {
		return core.WaitlistEntry{}, err
	}

	patronID, err := uuid.Parse(patronIDRaw)
	if err != nil {
		return core.WaitlistEntry{}, err
	}

	itemID, err := uuid.Parse(itemIDRaw)
	if err != nil {
		return core.WaitlistEntry{}, err
	}

	return core.WaitlistEntry{
		ID:                    id,
		PatronID:              patronID,
		ItemID:                itemID,
		RequestedDurationDays: durationDays,
		EnqueuedAt:            enqueuedAt,
	}, nil
}

// parseNullableUUID maps a NULL column to the zero UUID.
func parseNullableUUID(raw sql.NullString) (uuid.UUID, error) {
	if !raw.Valid {
		return uuid.Nil, nil
	}

	return uuid.Parse(raw.String)
}
