package outstandingfines

import (
	"context"

	"github.com/lendkit/circulation-go/shell"
)

// QueryHandler reads the patron's unpaid fines and projects the result.
type QueryHandler struct {
	storage shell.Storage
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(storage shell.Storage) QueryHandler {
	return QueryHandler{
		storage: storage,
	}
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OutstandingFines, error) {
	fines, err := h.storage.ListUnpaidFinesByPatron(ctx, query.PatronID)
	if err != nil {
		return OutstandingFines{}, err
	}

	return ProjectOutstandingFines(fines, query), nil
}
