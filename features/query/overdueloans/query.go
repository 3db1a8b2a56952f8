package overdueloans

const queryType = "OverdueLoans"

// DefaultLimit bounds the result when the caller does not set one.
const DefaultLimit = 100

// Query represents the intent to list currently overdue loans.
type Query struct {
	Limit int
}

// BuildQuery creates a new Query with the provided result limit; zero or
// negative falls back to DefaultLimit.
func BuildQuery(limit int) Query {
	if limit <= 0 {
		limit = DefaultLimit
	}

	return Query{
		Limit: limit,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
