package outstandingfines

import (
	"github.com/google/uuid"
)

const queryType = "OutstandingFinesByPatron"

// Query represents the intent to list a patron's unpaid fines.
type Query struct {
	PatronID uuid.UUID
}

// BuildQuery creates a new Query with the provided patron ID.
func BuildQuery(patronID uuid.UUID) Query {
	return Query{
		PatronID: patronID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
