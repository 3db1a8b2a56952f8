package memoryengine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// Store is an in-memory shell.Storage. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	copies       map[uuid.UUID]core.Copy
	requests     map[uuid.UUID]core.BorrowRequest
	reservations map[uuid.UUID]core.Reservation
	records      map[uuid.UUID]core.BorrowRecord
	fines        map[uuid.UUID]core.Fine
	waitlist     map[uuid.UUID]core.WaitlistEntry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		copies:       make(map[uuid.UUID]core.Copy),
		requests:     make(map[uuid.UUID]core.BorrowRequest),
		reservations: make(map[uuid.UUID]core.Reservation),
		records:      make(map[uuid.UUID]core.BorrowRecord),
		fines:        make(map[uuid.UUID]core.Fine),
		waitlist:     make(map[uuid.UUID]core.WaitlistEntry),
	}
}

// WithinTransaction runs fn against a transactional view. The store mutex
// serializes transactions; on error the pre-transaction snapshot is restored,
// so partial writes are never observable.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx shell.Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()

	if err := fn(ctx, &transaction{store: s}); err != nil {
		s.restore(snapshot)

		return err
	}

	return nil
}

type storeSnapshot struct {
	copies       map[uuid.UUID]core.Copy
	requests     map[uuid.UUID]core.BorrowRequest
	reservations map[uuid.UUID]core.Reservation
	records      map[uuid.UUID]core.BorrowRecord
	fines        map[uuid.UUID]core.Fine
	waitlist     map[uuid.UUID]core.WaitlistEntry
}

func (s *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		copies:       cloneMap(s.copies),
		requests:     cloneMap(s.requests),
		reservations: cloneMap(s.reservations),
		records:      cloneMap(s.records),
		fines:        cloneMap(s.fines),
		waitlist:     cloneMap(s.waitlist),
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.copies = snap.copies
	s.requests = snap.requests
	s.reservations = snap.reservations
	s.records = snap.records
	s.fines = snap.fines
	s.waitlist = snap.waitlist
}

func cloneMap[V any](src map[uuid.UUID]V) map[uuid.UUID]V {
	dst := make(map[uuid.UUID]V, len(src))
	for k, v := range src {
		dst[k] = v
	}

	return dst
}

// Reader methods lock for reading and delegate to the unlocked internals
// shared with the transactional view.

func (s *Store) GetCopy(ctx context.Context, id uuid.UUID) (core.Copy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getCopy(id)
}

func (s *Store) FindAvailableCopy(ctx context.Context, itemID uuid.UUID) (core.Copy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findAvailableCopy(itemID)
}

func (s *Store) GetBorrowRequest(ctx context.Context, id uuid.UUID) (core.BorrowRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getBorrowRequest(id)
}

func (s *Store) GetReservation(ctx context.Context, id uuid.UUID) (core.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getReservation(id)
}

func (s *Store) GetBorrowRecord(ctx context.Context, id uuid.UUID) (core.BorrowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getBorrowRecord(id)
}

func (s *Store) GetFine(ctx context.Context, id uuid.UUID) (core.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getFine(id)
}

func (s *Store) GetWaitlistEntry(ctx context.Context, id uuid.UUID) (core.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getWaitlistEntry(id)
}

func (s *Store) HasWaitlistEntry(ctx context.Context, patronID uuid.UUID, itemID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hasWaitlistEntry(patronID, itemID), nil
}

func (s *Store) ListWaitlist(ctx context.Context, itemID uuid.UUID) ([]core.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listWaitlist(itemID), nil
}

func (s *Store) ListDueRequests(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listDueRequests(asOf, limit), nil
}

func (s *Store) ListDueReservations(ctx context.Context, asOf time.Time, limit int) ([]core.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listDueReservations(asOf, limit), nil
}

func (s *Store) ListOngoingRecordsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.BorrowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listOngoingRecordsByPatron(patronID), nil
}

func (s *Store) ListOverdueRecords(ctx context.Context, asOf time.Time, limit int) ([]core.BorrowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listOverdueRecords(asOf, limit), nil
}

func (s *Store) ListOpenReservationsByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listOpenReservationsByPatron(patronID), nil
}

func (s *Store) ListUnpaidFinesByPatron(ctx context.Context, patronID uuid.UUID) ([]core.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listUnpaidFinesByPatron(patronID), nil
}

// Unlocked internals. Callers hold the appropriate lock.

func (s *Store) getCopy(id uuid.UUID) (core.Copy, error) {
	c, ok := s.copies[id]
	if !ok {
		return core.Copy{}, core.ErrNotFound
	}

	return c, nil
}

func (s *Store) findAvailableCopy(itemID uuid.UUID) (core.Copy, error) {
	var candidates []core.Copy
	for _, c := range s.copies {
		if c.ItemID == itemID && c.Status == core.CopyAvailable {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return core.Copy{}, core.ErrNoCopyAvailable
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].AcquiredAt.Equal(candidates[j].AcquiredAt) {
			return candidates[i].AcquiredAt.Before(candidates[j].AcquiredAt)
		}

		return strings.Compare(candidates[i].ID.String(), candidates[j].ID.String()) < 0
	})

	return candidates[0], nil
}

func (s *Store) getBorrowRequest(id uuid.UUID) (core.BorrowRequest, error) {
	r, ok := s.requests[id]
	if !ok {
		return core.BorrowRequest{}, core.ErrNotFound
	}

	return r, nil
}

func (s *Store) getReservation(id uuid.UUID) (core.Reservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return core.Reservation{}, core.ErrNotFound
	}

	return r, nil
}

func (s *Store) getBorrowRecord(id uuid.UUID) (core.BorrowRecord, error) {
	r, ok := s.records[id]
	if !ok {
		return core.BorrowRecord{}, core.ErrNotFound
	}

	return r, nil
}

func (s *Store) getFine(id uuid.UUID) (core.Fine, error) {
	f, ok := s.fines[id]
	if !ok {
		return core.Fine{}, core.ErrNotFound
	}

	return f, nil
}

func (s *Store) getWaitlistEntry(id uuid.UUID) (core.WaitlistEntry, error) {
	e, ok := s.waitlist[id]
	if !ok {
		return core.WaitlistEntry{}, core.ErrNotFound
	}

	return e, nil
}

func (s *Store) hasWaitlistEntry(patronID uuid.UUID, itemID uuid.UUID) bool {
	for _, e := range s.waitlist {
		if e.PatronID == patronID && e.ItemID == itemID {
			return true
		}
	}

	return false
}

func (s *Store) listWaitlist(itemID uuid.UUID) []core.WaitlistEntry {
	var entries []core.WaitlistEntry
	for _, e := range s.waitlist {
		if e.ItemID == itemID {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EnqueuedAt.Equal(entries[j].EnqueuedAt) {
			return entries[i].EnqueuedAt.Before(entries[j].EnqueuedAt)
		}

		return strings.Compare(entries[i].ID.String(), entries[j].ID.String()) < 0
	})

	return entries
}

func (s *Store) listDueRequests(asOf time.Time, limit int) []core.BorrowRequest {
	var due []core.BorrowRequest
	for _, r := range s.requests {
		if r.Status == core.RequestPending && !r.ExpiresAt.After(asOf) {
			due = append(due, r)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].ExpiresAt.Before(due[j].ExpiresAt)
	})

	return capped(due, limit)
}

func (s *Store) listDueReservations(asOf time.Time, limit int) []core.Reservation {
	var due []core.Reservation
	for _, r := range s.reservations {
		if r.Status == core.ReservationAwaitingPickup && !r.ExpiresAt.After(asOf) {
			due = append(due, r)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].ExpiresAt.Before(due[j].ExpiresAt)
	})

	return capped(due, limit)
}

func (s *Store) listOngoingRecordsByPatron(patronID uuid.UUID) []core.BorrowRecord {
	var out []core.BorrowRecord
	for _, r := range s.records {
		if r.PatronID == patronID && r.Status == core.RecordOngoing {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})

	return out
}

func (s *Store) listOverdueRecords(asOf time.Time, limit int) []core.BorrowRecord {
	var out []core.BorrowRecord
	for _, r := range s.records {
		if r.IsOverdue(asOf) {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})

	return capped(out, limit)
}

func (s *Store) listOpenReservationsByPatron(patronID uuid.UUID) []core.Reservation {
	var out []core.Reservation
	for _, r := range s.reservations {
		if r.PatronID == patronID && r.Status == core.ReservationAwaitingPickup {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAt.Before(out[j].ExpiresAt)
	})

	return out
}

func (s *Store) listUnpaidFinesByPatron(patronID uuid.UUID) []core.Fine {
	var out []core.Fine
	for _, f := range s.fines {
		if f.PatronID == patronID && f.Status == core.FineUnpaid {
			out = append(out, f)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].IssuedAt.Before(out[j].IssuedAt)
	})

	return out
}

func capped[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}

	return items
}
