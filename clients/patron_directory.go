package clients

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
	"github.com/lendkit/circulation-go/shell"
)

// PatronDirectoryClient implements shell.PatronDirectory against the patron
// directory's HTTP API.
type PatronDirectoryClient struct {
	baseClient
}

var _ shell.PatronDirectory = PatronDirectoryClient{}

// NewPatronDirectoryClient creates a patron directory client for the given base URL.
func NewPatronDirectoryClient(baseURL string, options ...ClientOption) PatronDirectoryClient {
	return PatronDirectoryClient{baseClient: newBaseClient(baseURL, options...)}
}

type patronStandingResponse struct {
	Active                 bool `json:"active"`
	ReputationIndex        int  `json:"reputation_index"`
	ActiveLoanCount        int  `json:"active_loan_count"`
	ActiveReservationCount int  `json:"active_reservation_count"`
}

type adjustReputationRequest struct {
	Delta int `json:"delta"`
}

type adjustReputationResponse struct {
	ReputationIndex int `json:"reputation_index"`
}

// GetPatronStanding fetches the patron's current standing. An unknown patron
// is reported as core.ErrNotFound.
func (c PatronDirectoryClient) GetPatronStanding(ctx context.Context, patronID uuid.UUID) (core.PatronStanding, error) {
	var standing patronStandingResponse

	found, err := c.getJSON(ctx, "/patrons/"+patronID.String()+"/standing", &standing)
	if err != nil {
		return core.PatronStanding{}, err
	}

	if !found {
		return core.PatronStanding{}, core.ErrNotFound
	}

	return core.PatronStanding{
		Active:                 standing.Active,
		ReputationIndex:        standing.ReputationIndex,
		ActiveLoanCount:        standing.ActiveLoanCount,
		ActiveReservationCount: standing.ActiveReservationCount,
	}, nil
}

// AdjustReputation applies a reputation delta and returns the new index. The
// directory owns the clamping; callers must not re-apply it.
func (c PatronDirectoryClient) AdjustReputation(ctx context.Context, patronID uuid.UUID, delta int) (int, error) {
	var result adjustReputationResponse

	err := c.postJSON(ctx, "/patrons/"+patronID.String()+"/reputation", adjustReputationRequest{Delta: delta}, &result)
	if err != nil {
		return 0, err
	}

	return result.ReputationIndex, nil
}
