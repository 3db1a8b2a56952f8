package expirysweep

import (
	"context"
	"time"

	"github.com/lendkit/circulation-go/features/command/expirerequest"
	"github.com/lendkit/circulation-go/features/command/expirereservation"
	"github.com/lendkit/circulation-go/shell"
)

// DefaultBatchSize bounds how many due records one sweep picks up per kind.
// Records left over are found by the next tick.
const DefaultBatchSize = 100

// SweepReport summarizes one sweep pass.
type SweepReport struct {
	RequestsExpired     int
	ReservationsExpired int
	Failures            int
}

// Sweeper finds due requests and reservations and expires them through the
// regular command handlers.
type Sweeper struct {
	storage      shell.Storage
	requests     expirerequest.CommandHandler
	reservations expirereservation.CommandHandler
	clock        shell.Clock
	logger       shell.Logger
	metrics      shell.MetricsCollector
	batchSize    int
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithLogger attaches a logger for per-record failure reporting.
func WithLogger(logger shell.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// WithMetrics attaches a metrics collector counting processed records and failures.
func WithMetrics(metrics shell.MetricsCollector) Option {
	return func(s *Sweeper) {
		s.metrics = metrics
	}
}

// WithBatchSize overrides the per-kind batch limit.
func WithBatchSize(size int) Option {
	return func(s *Sweeper) {
		s.batchSize = size
	}
}

// NewSweeper creates a Sweeper with optional configuration.
func NewSweeper(
	storage shell.Storage,
	requests expirerequest.CommandHandler,
	reservations expirereservation.CommandHandler,
	clock shell.Clock,
	opts ...Option,
) *Sweeper {
	sweeper := &Sweeper{
		storage:      storage,
		requests:     requests,
		reservations: reservations,
		clock:        clock,
		batchSize:    DefaultBatchSize,
	}

	for _, opt := range opts {
		opt(sweeper)
	}

	return sweeper
}

// Task packages the sweeper as a recurring scheduler job.
func (s *Sweeper) Task(every time.Duration) shell.Task {
	return shell.Task{
		Name:  "expiry-sweep",
		Every: every,
		Run: func(ctx context.Context) error {
			_, err := s.RunOnce(ctx)

			return err
		},
	}
}

// RunOnce performs one sweep pass. A failure on one record is logged and
// counted, never aborts the rest of the batch. The returned error only
// reports that the due records could not be listed at all.
func (s *Sweeper) RunOnce(ctx context.Context) (SweepReport, error) {
	report := SweepReport{}
	asOf := s.clock.Now()

	dueRequests, err := s.storage.ListDueRequests(ctx, asOf, s.batchSize)
	if err != nil {
		return report, err
	}

	for _, request := range dueRequests {
		result, expireErr := s.requests.Handle(ctx, expirerequest.BuildCommand(request.ID))
		if expireErr != nil {
			report.Failures++
			s.fail("expiring borrow request failed", request.ID.String(), expireErr)

			continue
		}

		if !result.Idempotent {
			report.RequestsExpired++
			s.count(shell.SweeperProcessedMetric, "borrow_request")
		}
	}

	dueReservations, err := s.storage.ListDueReservations(ctx, asOf, s.batchSize)
	if err != nil {
		return report, err
	}

	for _, reservation := range dueReservations {
		result, expireErr := s.reservations.Handle(ctx, expirereservation.BuildCommand(reservation.ID))
		if expireErr != nil {
			report.Failures++
			s.fail("expiring reservation failed", reservation.ID.String(), expireErr)

			continue
		}

		if !result.Idempotent {
			report.ReservationsExpired++
			s.count(shell.SweeperProcessedMetric, "reservation")
		}
	}

	return report, nil
}

func (s *Sweeper) fail(msg string, id string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, shell.LogAttrEntity, id, shell.LogAttrError, err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter(shell.SweeperFailuresMetric, nil)
	}
}

func (s *Sweeper) count(metric string, entity string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter(metric, map[string]string{shell.LogAttrEntity: entity})
	}
}
