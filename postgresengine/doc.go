// Package postgresengine provides the PostgreSQL implementation of the
// circulation storage contract.
//
// The store keeps one table per circulation entity (copies, borrow requests,
// reservations, borrow records, fines, waitlist entries) and implements every
// status change as a conditional UPDATE guarded by the expected source status.
// A guard that matches zero rows is reported as a transaction conflict, so a
// writer that lost a race detects it instead of overwriting newer state.
// Multi-entity operations run inside a single database transaction via
// WithinTransaction.
//
// Three constructors support the common PostgreSQL database libraries:
// NewStoreFromPGXPool, NewStoreFromSQLDB, and NewStoreFromSQLX. Options
// configure the table name prefix, logging, and metrics collection.
package postgresengine
