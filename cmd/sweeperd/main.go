// Command sweeperd runs the circulation expiry sweeper as a daemon: it
// periodically expires overdue borrow requests and reservations and feeds
// freed copies into the waitlist cascade.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lendkit/circulation-go/clients"
	"github.com/lendkit/circulation-go/features/command/expirerequest"
	"github.com/lendkit/circulation-go/features/command/expirereservation"
	"github.com/lendkit/circulation-go/features/process/expirysweep"
	"github.com/lendkit/circulation-go/features/process/waitlistcascade"
	"github.com/lendkit/circulation-go/oteladapters"
	"github.com/lendkit/circulation-go/postgresengine"
	"github.com/lendkit/circulation-go/shell"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("sweeperd failed: %v", err)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	logger := oteladapters.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store, err := postgresengine.NewStoreFromPGXPool(
		pool,
		postgresengine.WithTablePrefix(cfg.TablePrefix),
		postgresengine.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	if cfg.EnsureSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	patrons := clients.NewPatronDirectoryClient(cfg.PatronDirectoryURL)
	policySource := buildPolicySource(cfg)
	notifier, audit := buildOutboundClients(cfg)
	clock := shell.SystemClock{}

	// The cascade dispatches its own conversion effects; it has no
	// availability signal of its own, converting a copy reserves it.
	cascade := waitlistcascade.NewProcessor(
		store,
		patrons,
		policySource,
		shell.Effects{Notifier: notifier, Audit: audit, Patrons: patrons, Logger: logger},
		clock,
		waitlistcascade.WithLogger(logger),
	)

	// Expiry handlers announce freed copies to the cascade after commit.
	effects := shell.Effects{
		Notifier:     notifier,
		Audit:        audit,
		Patrons:      patrons,
		Availability: cascade,
		Logger:       logger,
	}

	sweeper := expirysweep.NewSweeper(
		store,
		expirerequest.NewCommandHandler(store, effects, clock),
		expirereservation.NewCommandHandler(store, policySource, effects, clock),
		clock,
		expirysweep.WithLogger(logger),
		expirysweep.WithBatchSize(cfg.SweepBatchSize),
	)

	scheduler := shell.NewScheduler(logger)
	scheduler.Register(sweeper.Task(cfg.SweepInterval))
	scheduler.Start(ctx)

	logger.Info("sweeperd started",
		"sweep_interval", cfg.SweepInterval.String(),
		"batch_size", cfg.SweepBatchSize,
		"table_prefix", cfg.TablePrefix)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info("shutting down", "signal", sig.String())
	scheduler.Stop()

	return nil
}

func buildPolicySource(cfg Config) shell.PolicySource {
	if cfg.PolicyURL != "" {
		return clients.NewPolicySourceClient(cfg.PolicyURL)
	}

	return shell.StaticPolicySource{Policy: cfg.StaticPolicy}
}

func buildOutboundClients(cfg Config) (shell.Notifier, shell.AuditSink) {
	var notifier shell.Notifier
	if cfg.NotifierURL != "" {
		notifier = clients.NewNotifierClient(cfg.NotifierURL)
	}

	var audit shell.AuditSink
	if cfg.AuditURL != "" {
		audit = clients.NewAuditSinkClient(cfg.AuditURL)
	}

	return notifier, audit
}
