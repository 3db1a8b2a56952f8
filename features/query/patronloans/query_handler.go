package patronloans

import (
	"context"

	"github.com/lendkit/circulation-go/shell"
)

// QueryHandler reads the patron's ongoing loans and projects the result.
type QueryHandler struct {
	storage shell.Storage
	clock   shell.Clock
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(storage shell.Storage, clock shell.Clock) QueryHandler {
	return QueryHandler{
		storage: storage,
		clock:   clock,
	}
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (PatronLoans, error) {
	records, err := h.storage.ListOngoingRecordsByPatron(ctx, query.PatronID)
	if err != nil {
		return PatronLoans{}, err
	}

	return ProjectPatronLoans(records, query, h.clock.Now()), nil
}
