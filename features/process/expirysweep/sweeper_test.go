package expirysweep_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/features/command/expirerequest"
	"github.com/lendkit/circulation-go/features/command/expirereservation"
	"github.com/lendkit/circulation-go/features/process/expirysweep"
	"github.com/lendkit/circulation-go/features/process/waitlistcascade"
	"github.com/lendkit/circulation-go/memoryengine"
	"github.com/lendkit/circulation-go/shell"
	"github.com/lendkit/circulation-go/testutil/testdoubles"
)

func testPolicy() core.Policy {
	return core.Policy{
		LateFeePerDay:          10,
		DamagedFee:             50,
		LostFee:                500,
		RequestExpiryDays:      3,
		ReservationExpiryDays:  2,
		MinReputationRequired:  5,
		MaxBorrowItems:         5,
		ReputationLossOnCancel: 1,
		ReputationLossOnExpire: 2,
	}
}

type sweepFixture struct {
	store    *memoryengine.Store
	patrons  *testdoubles.PatronDirectoryStub
	notifier *testdoubles.NotifierSpy
	clock    *testdoubles.FixedClock
	sweeper  *expirysweep.Sweeper
}

// newSweepFixture wires the sweeper the way production does: expiry of a
// reservation frees its copy, which feeds the waitlist cascade.
func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	store := memoryengine.NewStore()
	patrons := testdoubles.NewPatronDirectoryStub()
	notifier := testdoubles.NewNotifierSpy()
	clock := testdoubles.NewFixedClock(time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC))
	policySource := shell.StaticPolicySource{Policy: testPolicy()}

	cascade := waitlistcascade.NewProcessor(
		store, patrons, policySource, shell.Effects{Notifier: notifier}, clock)

	effects := shell.Effects{Notifier: notifier, Patrons: patrons, Availability: cascade}

	sweeper := expirysweep.NewSweeper(
		store,
		expirerequest.NewCommandHandler(store, effects, clock),
		expirereservation.NewCommandHandler(store, policySource, effects, clock),
		clock,
	)

	return &sweepFixture{store: store, patrons: patrons, notifier: notifier, clock: clock, sweeper: sweeper}
}

func (f *sweepFixture) seedPendingRequest(t *testing.T, expiresAt time.Time) core.BorrowRequest {
	t.Helper()

	request := core.BorrowRequest{
		ID:        uuid.New(),
		PatronID:  uuid.New(),
		ItemID:    uuid.New(),
		Status:    core.RequestPending,
		ExpiresAt: expiresAt,
	}
	err := f.store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.InsertBorrowRequest(ctx, request)
	})
	require.NoError(t, err)

	return request
}

func (f *sweepFixture) seedAwaitingReservation(t *testing.T, expiresAt time.Time) (core.Reservation, core.Copy) {
	t.Helper()

	copy := core.Copy{ID: uuid.New(), ItemID: uuid.New(), Status: core.CopyReserved}
	reservation := core.Reservation{
		ID:        uuid.New(),
		CopyID:    copy.ID,
		PatronID:  uuid.New(),
		Status:    core.ReservationAwaitingPickup,
		ExpiresAt: expiresAt,
	}
	f.patrons.SetStanding(reservation.PatronID, core.PatronStanding{Active: true, ReputationIndex: 10})

	err := f.store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		if txErr := tx.InsertCopy(ctx, copy); txErr != nil {
			return txErr
		}

		return tx.InsertReservation(ctx, reservation)
	})
	require.NoError(t, err)

	return reservation, copy
}

func Test_RunOnce_ExpiresDueRequestsAndReservations(t *testing.T) {
	// arrange
	fixture := newSweepFixture(t)
	now := fixture.clock.Now()
	dueRequest := fixture.seedPendingRequest(t, now.Add(-time.Hour))
	freshRequest := fixture.seedPendingRequest(t, now.Add(time.Hour))
	dueReservation, copy := fixture.seedAwaitingReservation(t, now.Add(-time.Hour))

	// act
	report, err := fixture.sweeper.RunOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, report.RequestsExpired)
	assert.Equal(t, 1, report.ReservationsExpired)
	assert.Equal(t, 0, report.Failures)

	expired, err := fixture.store.GetBorrowRequest(context.Background(), dueRequest.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RequestExpired, expired.Status)

	untouched, err := fixture.store.GetBorrowRequest(context.Background(), freshRequest.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RequestPending, untouched.Status)

	lapsed, err := fixture.store.GetReservation(context.Background(), dueReservation.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ReservationExpired, lapsed.Status)

	freed, err := fixture.store.GetCopy(context.Background(), copy.ID)
	require.NoError(t, err)
	assert.Equal(t, core.CopyAvailable, freed.Status)
}

func Test_RunOnce_ReservationExpiryPenalizesPatron(t *testing.T) {
	fixture := newSweepFixture(t)
	reservation, _ := fixture.seedAwaitingReservation(t, fixture.clock.Now().Add(-time.Hour))

	_, err := fixture.sweeper.RunOnce(context.Background())

	require.NoError(t, err)
	adjustments := fixture.patrons.Adjustments()
	require.Len(t, adjustments, 1)
	assert.Equal(t, reservation.PatronID, adjustments[0].PatronID)
	assert.Equal(t, -2, adjustments[0].Delta)
	assert.Equal(t, 8, adjustments[0].NewValue)
}

func Test_RunOnce_ExpiredReservationCascadesToWaitlist(t *testing.T) {
	fixture := newSweepFixture(t)
	_, copy := fixture.seedAwaitingReservation(t, fixture.clock.Now().Add(-time.Hour))

	waiting := uuid.New()
	fixture.patrons.SetStanding(waiting, core.PatronStanding{Active: true, ReputationIndex: 10})
	err := fixture.store.WithinTransaction(context.Background(), func(ctx context.Context, tx shell.Transaction) error {
		return tx.InsertWaitlistEntry(ctx, core.BuildWaitlistEntry(waiting, copy.ItemID, 7, fixture.clock.Now()))
	})
	require.NoError(t, err)

	_, err = fixture.sweeper.RunOnce(context.Background())

	require.NoError(t, err)

	reclaimed, err := fixture.store.GetCopy(context.Background(), copy.ID)
	require.NoError(t, err)
	assert.Equal(t, core.CopyReserved, reclaimed.Status, "the freed copy goes straight to the waitlisted patron")

	reservations, err := fixture.store.ListOpenReservationsByPatron(context.Background(), waiting)
	require.NoError(t, err)
	assert.Len(t, reservations, 1)
}

func Test_RunOnce_SecondRunWithNoTimeElapsedIsANoOp(t *testing.T) {
	fixture := newSweepFixture(t)
	fixture.seedPendingRequest(t, fixture.clock.Now().Add(-time.Hour))
	fixture.seedAwaitingReservation(t, fixture.clock.Now().Add(-time.Hour))

	first, err := fixture.sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.RequestsExpired)
	require.Equal(t, 1, first.ReservationsExpired)

	second, err := fixture.sweeper.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, second.RequestsExpired)
	assert.Equal(t, 0, second.ReservationsExpired)
	assert.Equal(t, 0, second.Failures)
}
