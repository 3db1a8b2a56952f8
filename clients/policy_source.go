package clients

import (
	"context"
	"errors"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// PolicySourceClient implements shell.PolicySource against the policy
// service's HTTP API. Every failure mode, transport, decode, or an invalid
// snapshot, is surfaced as core.ErrPolicyUnavailable so commands abort
// instead of running with partial configuration.
type PolicySourceClient struct {
	baseClient
}

var _ shell.PolicySource = PolicySourceClient{}

// NewPolicySourceClient creates a policy source client for the given base URL.
func NewPolicySourceClient(baseURL string, options ...ClientOption) PolicySourceClient {
	return PolicySourceClient{baseClient: newBaseClient(baseURL, options...)}
}

type policyResponse struct {
	LateFeePerDay          int64 `json:"late_fee_per_day"`
	DamagedFee             int64 `json:"damaged_fee"`
	LostFee                int64 `json:"lost_fee"`
	RequestExpiryDays      int   `json:"request_expiry_days"`
	ReservationExpiryDays  int   `json:"reservation_expiry_days"`
	MinReputationRequired  int   `json:"min_reputation_required"`
	MaxBorrowItems         int   `json:"max_borrow_items"`
	ReputationLossOnCancel int   `json:"reputation_loss_on_cancel"`
	ReputationLossOnExpire int   `json:"reputation_loss_on_expire"`
}

// Current fetches the policy snapshot.
func (c PolicySourceClient) Current(ctx context.Context) (core.Policy, error) {
	var response policyResponse

	found, err := c.getJSON(ctx, "/policy", &response)
	if err != nil || !found {
		return core.Policy{}, errors.Join(core.ErrPolicyUnavailable, err)
	}

	policy := core.Policy{
		LateFeePerDay:          core.Cents(response.LateFeePerDay),
		DamagedFee:             core.Cents(response.DamagedFee),
		LostFee:                core.Cents(response.LostFee),
		RequestExpiryDays:      response.RequestExpiryDays,
		ReservationExpiryDays:  response.ReservationExpiryDays,
		MinReputationRequired:  response.MinReputationRequired,
		MaxBorrowItems:         response.MaxBorrowItems,
		ReputationLossOnCancel: response.ReputationLossOnCancel,
		ReputationLossOnExpire: response.ReputationLossOnExpire,
	}

	if validateErr := policy.Validate(); validateErr != nil {
		return core.Policy{}, errors.Join(core.ErrPolicyUnavailable, validateErr)
	}

	return policy, nil
}
