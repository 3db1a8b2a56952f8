package postgresengine

import (
	"context"
	"fmt"
)

// EnsureSchema creates the circulation tables and indexes if they do not
// exist yet. Intended for development setups and integration tests; managed
// environments should run the equivalent migrations instead.
func (s Store) EnsureSchema(ctx context.Context) error {
	for _, statement := range s.schemaStatements() {
		if _, err := s.executeStatement(ctx, s.db, statement, "ensure_schema"); err != nil {
			return err
		}
	}

	return nil
}

func (s Store) schemaStatements() []string {
	copies := s.table(tableCopies)
	requests := s.table(tableRequests)
	reservations := s.table(tableReservations)
	records := s.table(tableRecords)
	fines := s.table(tableFines)
	waitlist := s.table(tableWaitlist)

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			item_id UUID NOT NULL,
			condition TEXT NOT NULL,
			status TEXT NOT NULL,
			acquired_at TIMESTAMPTZ NOT NULL
		)`, copies),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_item_status_idx ON %s (item_id, status, acquired_at, id)`,
			copies, copies),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			patron_id UUID NOT NULL,
			item_id UUID NOT NULL,
			duration_days INTEGER NOT NULL,
			status TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			rejection_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`, requests),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_due_idx ON %s (expires_at) WHERE status = 'pending'`,
			requests, requests),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			request_id UUID,
			copy_id UUID NOT NULL REFERENCES %s (id),
			patron_id UUID NOT NULL,
			secret_hash TEXT NOT NULL,
			duration_days INTEGER NOT NULL,
			status TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`, reservations, copies),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_due_idx ON %s (expires_at) WHERE status = 'awaiting_pickup'`,
			reservations, reservations),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_open_copy_idx ON %s (copy_id) WHERE status = 'awaiting_pickup'`,
			reservations, reservations),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			copy_id UUID NOT NULL REFERENCES %s (id),
			patron_id UUID NOT NULL,
			due_date TIMESTAMPTZ NOT NULL,
			return_date TIMESTAMPTZ,
			return_condition TEXT,
			status TEXT NOT NULL,
			fine_id UUID,
			created_at TIMESTAMPTZ NOT NULL
		)`, records, copies),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_patron_idx ON %s (patron_id) WHERE status = 'ongoing'`,
			records, records),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_overdue_idx ON %s (due_date) WHERE status = 'ongoing'`,
			records, records),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_open_copy_idx ON %s (copy_id) WHERE status = 'ongoing'`,
			records, records),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			borrow_record_id UUID NOT NULL REFERENCES %s (id),
			patron_id UUID NOT NULL,
			amount BIGINT NOT NULL,
			reason TEXT NOT NULL,
			status TEXT NOT NULL,
			issued_at TIMESTAMPTZ NOT NULL,
			paid_at TIMESTAMPTZ
		)`, fines, records),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_patron_unpaid_idx ON %s (patron_id, issued_at) WHERE status = 'unpaid'`,
			fines, fines),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			patron_id UUID NOT NULL,
			item_id UUID NOT NULL,
			duration_days INTEGER NOT NULL,
			enqueued_at TIMESTAMPTZ NOT NULL,
			UNIQUE (patron_id, item_id)
		)`, waitlist),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_item_idx ON %s (item_id, enqueued_at, id)`,
			waitlist, waitlist),
	}
}
