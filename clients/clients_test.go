package clients_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendkit/circulation-go/clients"
	"github.com/lendkit/circulation-go/core"
)

func Test_CatalogClient_ItemExistsAndCopyCount(t *testing.T) {
	itemID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/items/"+itemID.String() {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"` + itemID.String() + `","active_copies":3}`))

			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	catalog := clients.NewCatalogClient(server.URL)
	ctx := context.Background()

	exists, err := catalog.ItemExists(ctx, itemID)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := catalog.ActiveCopyCount(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	exists, err = catalog.ItemExists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_PatronDirectoryClient_StandingAndReputation(t *testing.T) {
	patronID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/patrons/"+patronID.String()+"/standing":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"active":true,"reputation_index":7,"active_loan_count":2,"active_reservation_count":1}`))
		case r.Method == http.MethodPost && r.URL.Path == "/patrons/"+patronID.String()+"/reputation":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"reputation_index":5}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	directory := clients.NewPatronDirectoryClient(server.URL)
	ctx := context.Background()

	standing, err := directory.GetPatronStanding(ctx, patronID)
	require.NoError(t, err)
	assert.True(t, standing.Active)
	assert.Equal(t, 7, standing.ReputationIndex)
	assert.Equal(t, 2, standing.ActiveLoanCount)

	newIndex, err := directory.AdjustReputation(ctx, patronID, -2)
	require.NoError(t, err)
	assert.Equal(t, 5, newIndex)

	_, err = directory.GetPatronStanding(ctx, uuid.New())
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_NotifierClient_SendPostsPayload(t *testing.T) {
	patronID := uuid.New()
	var received string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/notifications", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		received = string(body)

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier := clients.NewNotifierClient(server.URL)

	err := notifier.Send(context.Background(), patronID, "your reservation is ready", "reservation_ready")
	require.NoError(t, err)
	assert.Contains(t, received, patronID.String())
	assert.Contains(t, received, "reservation_ready")
}

func Test_NotifierClient_ServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := clients.NewNotifierClient(server.URL)

	err := notifier.Send(context.Background(), uuid.New(), "msg", "category")
	assert.Error(t, err)
}

func Test_AuditSinkClient_RecordPostsEntry(t *testing.T) {
	var path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sink := clients.NewAuditSinkClient(server.URL)

	err := sink.Record(context.Background(), "request_approved", uuid.New(), uuid.New(), "borrow request approved")
	require.NoError(t, err)
	assert.Equal(t, "/audit-entries", path)
}

func Test_PolicySourceClient_ValidSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/policy", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"late_fee_per_day": 25,
			"damaged_fee": 100,
			"lost_fee": 1500,
			"request_expiry_days": 3,
			"reservation_expiry_days": 2,
			"min_reputation_required": 5,
			"max_borrow_items": 5,
			"reputation_loss_on_cancel": 1,
			"reputation_loss_on_expire": 2
		}`))
	}))
	defer server.Close()

	source := clients.NewPolicySourceClient(server.URL)

	policy, err := source.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Cents(25), policy.LateFeePerDay)
	assert.Equal(t, 3, policy.RequestExpiryDays)
}

func Test_PolicySourceClient_InvalidSnapshotIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"late_fee_per_day": 25}`))
	}))
	defer server.Close()

	source := clients.NewPolicySourceClient(server.URL)

	_, err := source.Current(context.Background())
	assert.ErrorIs(t, err, core.ErrPolicyUnavailable)
}

func Test_PolicySourceClient_UnreachableServiceIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := clients.NewPolicySourceClient(server.URL)

	_, err := source.Current(context.Background())
	assert.ErrorIs(t, err, core.ErrPolicyUnavailable)
}
