package approverequest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/approverequest"
	"github.com/lendkit/circulation-go/memoryengine"
	"github.com/lendkit/circulation-go/shell"
	"github.com/lendkit/circulation-go/testutil/testdoubles"
)

type approveFixture struct {
	store    *memoryengine.Store
	notifier *testdoubles.NotifierSpy
	audit    *testdoubles.AuditSinkSpy
	clock    *testdoubles.FixedClock
	handler  approverequest.CommandHandler
}

func newApproveFixture(t *testing.T) *approveFixture {
	t.Helper()

	store := memoryengine.NewStore()
	notifier := testdoubles.NewNotifierSpy()
	audit := testdoubles.NewAuditSinkSpy()
	clock := testdoubles.NewFixedClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	handler := approverequest.NewCommandHandler(
		store,
		shell.StaticPolicySource{Policy: testPolicy()},
		shell.Effects{Notifier: notifier, Audit: audit},
		clock,
	)

	return &approveFixture{store: store, notifier: notifier, audit: audit, clock: clock, handler: handler}
}

func (f *approveFixture) seedCopy(t *testing.T, copy core.Copy) {
	t.Helper()

	err := f.store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.InsertCopy(ctx, copy)
	})
	require.NoError(t, err)
}

func (f *approveFixture) seedRequest(t *testing.T, request core.BorrowRequest) {
	t.Helper()

	err := f.store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.InsertBorrowRequest(ctx, request)
	})
	require.NoError(t, err)
}

func Test_Handle_ApproveClaimsExactlyOneCopy(t *testing.T) {
	// arrange
	fixture := newApproveFixture(t)
	itemID := uuid.New()
	claimable := availableCopy(itemID)
	bystander := availableCopy(itemID)
	bystander.AcquiredAt = claimable.AcquiredAt.AddDate(0, 0, 1)
	fixture.seedCopy(t, claimable)
	fixture.seedCopy(t, bystander)

	request := pendingRequest(itemID)
	fixture.seedRequest(t, request)

	// act
	result, err := fixture.handler.Handle(context.Background(), approverequest.BuildCommand(request.ID, uuid.New()))

	// assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.PickupSecret)
	assert.True(t, shell.VerifyPickupSecret(result.PickupSecret, result.Reservation.SecretHash))

	claimed, err := fixture.store.GetCopy(context.Background(), claimable.ID)
	require.NoError(t, err)
	assert.Equal(t, core.CopyReserved, claimed.Status)

	untouched, err := fixture.store.GetCopy(context.Background(), bystander.ID)
	require.NoError(t, err)
	assert.Equal(t, core.CopyAvailable, untouched.Status, "only one copy may be claimed")

	approved, err := fixture.store.GetBorrowRequest(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RequestApproved, approved.Status)

	stored, err := fixture.store.GetReservation(context.Background(), result.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ReservationAwaitingPickup, stored.Status)

	require.Len(t, fixture.notifier.SentTo(request.PatronID), 1)
	assert.Contains(t, fixture.notifier.SentTo(request.PatronID)[0].Message, result.PickupSecret)
}

func Test_Handle_ApproveWithoutAvailableCopyFails(t *testing.T) {
	fixture := newApproveFixture(t)
	itemID := uuid.New()
	checkedOut := availableCopy(itemID)
	checkedOut.Status = core.CopyCheckedOut
	fixture.seedCopy(t, checkedOut)

	request := pendingRequest(itemID)
	fixture.seedRequest(t, request)

	_, err := fixture.handler.Handle(context.Background(), approverequest.BuildCommand(request.ID, uuid.New()))

	assert.ErrorIs(t, err, core.ErrNoCopyAvailable)

	unchanged, getErr := fixture.store.GetBorrowRequest(context.Background(), request.ID)
	require.NoError(t, getErr)
	assert.Equal(t, core.RequestPending, unchanged.Status)
}

func Test_Handle_ApproveUnknownRequestFails(t *testing.T) {
	fixture := newApproveFixture(t)

	_, err := fixture.handler.Handle(context.Background(), approverequest.BuildCommand(uuid.New(), uuid.New()))

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_Handle_ConcurrentApprovalsForLastCopyLeaveOneWinner(t *testing.T) {
	// arrange: one available copy, two pending requests for the same item
	fixture := newApproveFixture(t)
	itemID := uuid.New()
	fixture.seedCopy(t, availableCopy(itemID))

	first := pendingRequest(itemID)
	second := pendingRequest(itemID)
	fixture.seedRequest(t, first)
	fixture.seedRequest(t, second)

	// act
	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i, requestID := range []uuid.UUID{first.ID, second.ID} {
		wg.Add(1)

		go func(slot int, id uuid.UUID) {
			defer wg.Done()

			_, errs[slot] = fixture.handler.Handle(context.Background(), approverequest.BuildCommand(id, uuid.New()))
		}(i, requestID)
	}
	wg.Wait()

	// assert: exactly one success, the loser surfaces NoCopyAvailable
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, core.ErrNoCopyAvailable)
		}
	}
	assert.Equal(t, 1, successes)
}
