package memoryengine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/memoryengine"
	"github.com/lendkit/circulation-go/shell"
)

func seedCopy(t *testing.T, store *memoryengine.Store, copy core.Copy) {
	t.Helper()

	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.InsertCopy(ctx, copy)
	})
	require.NoError(t, err)
}

func Test_TransitionCopy_StalePreconditionFailsWithConflict(t *testing.T) {
	store := memoryengine.NewStore()
	copy := core.Copy{ID: uuid.New(), ItemID: uuid.New(), Status: core.CopyReserved}
	seedCopy(t, store, copy)

	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.TransitionCopy(ctx, copy.ID, core.CopyAvailable, core.CopyReserved)
	})

	assert.ErrorIs(t, err, shell.ErrTransactionConflict)
}

func Test_TransitionCopy_UnknownCopyFailsWithNotFound(t *testing.T) {
	store := memoryengine.NewStore()

	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.TransitionCopy(ctx, uuid.New(), core.CopyAvailable, core.CopyReserved)
	})

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_WithinTransaction_ErrorRollsBackAllWrites(t *testing.T) {
	store := memoryengine.NewStore()
	copy := core.Copy{ID: uuid.New(), ItemID: uuid.New(), Status: core.CopyAvailable}
	seedCopy(t, store, copy)

	sentinel := errors.New("boom")
	reservationID := uuid.New()

	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		if txErr := tx.TransitionCopy(ctx, copy.ID, core.CopyAvailable, core.CopyReserved); txErr != nil {
			return txErr
		}

		if txErr := tx.InsertReservation(ctx, core.Reservation{ID: reservationID, CopyID: copy.ID}); txErr != nil {
			return txErr
		}

		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	unchanged, err := store.GetCopy(context.Background(), copy.ID)
	require.NoError(t, err)
	assert.Equal(t, core.CopyAvailable, unchanged.Status, "copy flip must not survive the rollback")

	_, err = store.GetReservation(context.Background(), reservationID)
	assert.ErrorIs(t, err, core.ErrNotFound, "insert must not survive the rollback")
}

func Test_FindAvailableCopy_PicksOldestAvailableFirst(t *testing.T) {
	store := memoryengine.NewStore()
	itemID := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	newest := core.Copy{ID: uuid.New(), ItemID: itemID, Status: core.CopyAvailable, AcquiredAt: base.AddDate(0, 0, 2)}
	oldest := core.Copy{ID: uuid.New(), ItemID: itemID, Status: core.CopyAvailable, AcquiredAt: base}
	reserved := core.Copy{ID: uuid.New(), ItemID: itemID, Status: core.CopyReserved, AcquiredAt: base.AddDate(0, 0, -5)}
	seedCopy(t, store, newest)
	seedCopy(t, store, oldest)
	seedCopy(t, store, reserved)

	found, err := store.FindAvailableCopy(context.Background(), itemID)

	require.NoError(t, err)
	assert.Equal(t, oldest.ID, found.ID)
}

func Test_FindAvailableCopy_NoAvailableCopyFails(t *testing.T) {
	store := memoryengine.NewStore()
	itemID := uuid.New()
	seedCopy(t, store, core.Copy{ID: uuid.New(), ItemID: itemID, Status: core.CopyCheckedOut})

	_, err := store.FindAvailableCopy(context.Background(), itemID)

	assert.ErrorIs(t, err, core.ErrNoCopyAvailable)
}

func Test_InsertWaitlistEntry_DuplicatePatronItemPairFails(t *testing.T) {
	store := memoryengine.NewStore()
	patronID := uuid.New()
	itemID := uuid.New()

	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.InsertWaitlistEntry(ctx, core.BuildWaitlistEntry(patronID, itemID, 7, time.Now()))
	})
	require.NoError(t, err)

	err = store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.InsertWaitlistEntry(ctx, core.BuildWaitlistEntry(patronID, itemID, 7, time.Now()))
	})

	assert.ErrorIs(t, err, shell.ErrDuplicateWaitlistEntry)
}

func Test_ListWaitlist_OrdersOldestFirst(t *testing.T) {
	store := memoryengine.NewStore()
	itemID := uuid.New()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	second := core.BuildWaitlistEntry(uuid.New(), itemID, 7, base.Add(time.Hour))
	first := core.BuildWaitlistEntry(uuid.New(), itemID, 7, base)
	third := core.BuildWaitlistEntry(uuid.New(), itemID, 7, base.Add(2*time.Hour))

	for _, entry := range []core.WaitlistEntry{second, first, third} {
		entry := entry
		err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
			return tx.InsertWaitlistEntry(ctx, entry)
		})
		require.NoError(t, err)
	}

	entries, err := store.ListWaitlist(context.Background(), itemID)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
	assert.Equal(t, third.ID, entries[2].ID)
}

func Test_ListDueRequests_OnlyPendingAndDue(t *testing.T) {
	store := memoryengine.NewStore()
	asOf := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	due := core.BorrowRequest{ID: uuid.New(), Status: core.RequestPending, ExpiresAt: asOf.Add(-time.Hour)}
	notYet := core.BorrowRequest{ID: uuid.New(), Status: core.RequestPending, ExpiresAt: asOf.Add(time.Hour)}
	terminal := core.BorrowRequest{ID: uuid.New(), Status: core.RequestExpired, ExpiresAt: asOf.Add(-time.Hour)}

	for _, request := range []core.BorrowRequest{due, notYet, terminal} {
		request := request
		err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
			return tx.InsertBorrowRequest(ctx, request)
		})
		require.NoError(t, err)
	}

	found, err := store.ListDueRequests(context.Background(), asOf, 10)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID, found[0].ID)
}

func Test_CloseBorrowRecord_OnlyClosesOngoingLoans(t *testing.T) {
	store := memoryengine.NewStore()
	record := core.BorrowRecord{ID: uuid.New(), Status: core.RecordReturned}

	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.InsertBorrowRecord(ctx, record)
	})
	require.NoError(t, err)

	err = store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.CloseBorrowRecord(ctx, record.ID, core.RecordReturned, time.Now(), core.ReturnNormal, uuid.Nil)
	})

	assert.ErrorIs(t, err, shell.ErrTransactionConflict)
}
