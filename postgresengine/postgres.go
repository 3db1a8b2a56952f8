package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lendkit/circulation-go/postgresengine/internal/adapters"
	"github.com/lendkit/circulation-go/shell"
)

const (
	defaultTablePrefix = "circulation"

	logMsgBuildQueryFailed   = "failed to build sql query"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgTxBeginFailed      = "failed to begin transaction"
	logMsgTxCommitFailed     = "failed to commit transaction"
	logMsgTxRollbackFailed   = "failed to roll back transaction"
	logMsgConflictDetected   = "conditional write matched no row in expected status"
	logMsgSQLExecuted        = "executed sql for: "

	logAttrError    = "error"
	logAttrQuery    = "query"
	logAttrTable    = "table"
	logAttrDuration = "duration_ms"

	storageQueryDurationMetric = "circulation_storage_query_seconds"
	storageConflictMetric      = "circulation_storage_conflicts_total"

	dialectPostgres = "postgres"

	tableCopies       = "copies"
	tableRequests     = "borrow_requests"
	tableReservations = "reservations"
	tableRecords      = "borrow_records"
	tableFines        = "fines"
	tableWaitlist     = "waitlist_entries"

	colID              = "id"
	colItemID          = "item_id"
	colPatronID        = "patron_id"
	colCopyID          = "copy_id"
	colRequestID       = "request_id"
	colRecordID        = "borrow_record_id"
	colFineID          = "fine_id"
	colCondition       = "condition"
	colStatus          = "status"
	colAcquiredAt      = "acquired_at"
	colDurationDays    = "duration_days"
	colExpiresAt       = "expires_at"
	colRejectionReason = "rejection_reason"
	colCreatedAt       = "created_at"
	colSecretHash      = "secret_hash"
	colDueDate         = "due_date"
	colReturnDate      = "return_date"
	colReturnCondition = "return_condition"
	colAmount          = "amount"
	colReason          = "reason"
	colIssuedAt        = "issued_at"
	colPaidAt          = "paid_at"
	colEnqueuedAt      = "enqueued_at"

	pgCodeUniqueViolation      = "23505"
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
)

type sqlQueryString = string

// Store is the PostgreSQL-backed implementation of shell.Storage.
type Store struct {
	db          adapters.DBAdapter
	tablePrefix string
	logger      shell.Logger
	metrics     shell.MetricsCollector
}

var _ shell.Storage = Store{}

// Option defines a configuration option for the Store.
type Option func(*Store) error

// WithTablePrefix sets a custom prefix for the circulation tables.
func WithTablePrefix(prefix string) Option {
	return func(s *Store) error {
		if prefix == "" {
			return shell.ErrEmptyTablePrefix
		}

		s.tablePrefix = prefix

		return nil
	}
}

// WithLogger sets a logger for the store.
//
// Error level: failed operations (query build, execution, scan, tx control).
// Warn level: non-fatal cleanup issues like a failed rows close.
// Debug level: every executed SQL statement with its duration.
func WithLogger(logger shell.Logger) Option {
	return func(s *Store) error {
		s.logger = logger

		return nil
	}
}

// WithMetrics sets a metrics collector for the store.
func WithMetrics(metrics shell.MetricsCollector) Option {
	return func(s *Store) error {
		s.metrics = metrics

		return nil
	}
}

// NewStoreFromPGXPool creates a new Store using a pgxpool.Pool with optional configuration.
func NewStoreFromPGXPool(pool *pgxpool.Pool, options ...Option) (Store, error) {
	if pool == nil {
		return Store{}, shell.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(pool), options...)
}

// NewStoreFromPGXPoolWithReplica creates a new Store using a primary pool for
// writes and transactions and a replica pool for plain reads.
func NewStoreFromPGXPoolWithReplica(pool *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Store, error) {
	if pool == nil || replica == nil {
		return Store{}, shell.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(pool, replica), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, shell.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, shell.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (Store, error) {
	s := Store{
		db:          db,
		tablePrefix: defaultTablePrefix,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// WithinTransaction runs fn inside a single database transaction. fn returning
// an error rolls the transaction back and the error is passed through, with
// serialization failures mapped to shell.ErrTransactionConflict on commit.
func (s Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx shell.Transaction) error) error {
	dbTx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		s.logError(logMsgTxBeginFailed, beginErr)

		return beginErr
	}

	if fnErr := fn(ctx, storeTransaction{store: s, tx: dbTx}); fnErr != nil {
		if rollbackErr := dbTx.Rollback(ctx); rollbackErr != nil {
			s.logWarn(logMsgTxRollbackFailed, rollbackErr)
		}

		return fnErr
	}

	if commitErr := dbTx.Commit(ctx); commitErr != nil {
		s.logError(logMsgTxCommitFailed, commitErr)

		if isRetryableTxFailure(commitErr) {
			return errors.Join(shell.ErrTransactionConflict, commitErr)
		}

		return commitErr
	}

	return nil
}

// executor abstracts over running statements on the pool or inside an open
// transaction, so reads share one implementation for both paths.
type executor interface {
	Query(ctx context.Context, query string) (adapters.DBRows, error)
	Exec(ctx context.Context, query string) (adapters.DBResult, error)
}

func (s Store) table(name string) string {
	return s.tablePrefix + "_" + name
}

func (s Store) executeQuery(ctx context.Context, run executor, sqlQuery sqlQueryString, operation string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := run.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.observeStatement(operation, sqlQuery, duration)

	if queryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return nil, queryErr
	}

	return rows, nil
}

func (s Store) executeStatement(ctx context.Context, run executor, sqlQuery sqlQueryString, operation string) (int64, error) {
	start := time.Now()
	result, execErr := run.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.observeStatement(operation, sqlQuery, duration)

	if execErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}

		return 0, execErr
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(logMsgRowsAffectedFailed, rowsAffectedErr)

		return 0, rowsAffectedErr
	}

	return rowsAffected, nil
}

func (s Store) observeStatement(operation string, sqlQuery sqlQueryString, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+operation, logAttrQuery, sqlQuery, logAttrDuration, duration.Milliseconds())
	}

	if s.metrics != nil {
		s.metrics.RecordDuration(storageQueryDurationMetric, duration, map[string]string{"operation": operation})
	}
}

func (s Store) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(logMsgCloseRowsFailed, closeErr)
	}
}

func (s Store) logError(msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, logAttrError, err.Error())
	}
}

func (s Store) logWarn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, logAttrError, err.Error())
	}
}

func (s Store) recordConflict(table string) {
	if s.logger != nil {
		s.logger.Debug(logMsgConflictDetected, logAttrTable, table)
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter(storageConflictMetric, map[string]string{logAttrTable: table})
	}
}

func builder() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

// sqlState extracts the PostgreSQL error code from driver errors of either
// the pgx or the lib/pq flavor.
func sqlState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

func isUniqueViolation(err error) bool {
	return sqlState(err) == pgCodeUniqueViolation
}

func isRetryableTxFailure(err error) bool {
	code := sqlState(err)

	return code == pgCodeSerializationFailure || code == pgCodeDeadlockDetected
}
