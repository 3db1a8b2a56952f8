package shell

import "errors"

var (
	// ErrTransactionConflict indicates a conditional write affected no rows
	// because another writer changed the record first. Handlers retry once with
	// fresh reads before surfacing it.
	ErrTransactionConflict = errors.New("transaction conflict, no rows were affected")

	// ErrDuplicateWaitlistEntry indicates the patron is already queued for the item.
	ErrDuplicateWaitlistEntry = errors.New("patron is already on the waitlist for this item")

	// ErrNilDatabaseConnection is returned by engine constructors handed a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTablePrefix is returned when an empty table prefix is supplied.
	ErrEmptyTablePrefix = errors.New("empty table prefix supplied")
)
