package overdueloans

import (
	"context"

	"github.com/lendkit/circulation-go/shell"
)

// QueryHandler reads the overdue records and projects the result.
type QueryHandler struct {
	storage      shell.Storage
	policySource shell.PolicySource
	clock        shell.Clock
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(storage shell.Storage, policySource shell.PolicySource, clock shell.Clock) QueryHandler {
	return QueryHandler{
		storage:      storage,
		policySource: policySource,
		clock:        clock,
	}
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OverdueLoans, error) {
	policy, err := h.policySource.Current(ctx)
	if err != nil {
		return OverdueLoans{}, err
	}

	now := h.clock.Now()

	records, err := h.storage.ListOverdueRecords(ctx, now, query.Limit)
	if err != nil {
		return OverdueLoans{}, err
	}

	return ProjectOverdueLoans(records, now, policy), nil
}
