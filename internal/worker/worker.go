// Package worker runs the domain engines on the job queue: one worker per job
// kind plus the periodic sweeps that feed them.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"domainctl/internal/certificate"
	"domainctl/internal/config"
	"domainctl/internal/reconfirmation"
	"domainctl/internal/reservation"
	"domainctl/internal/verification"
	"domainctl/pkg/logger"
	"domainctl/pkg/notifier"
)

const defaultMaxWorkers = 100

// Options configure the queue client.
type Options struct {
	// MaxWorkers bounds concurrently running jobs in this process.
	MaxWorkers int
	// JobTimeout bounds a single per-domain job.
	JobTimeout time.Duration
	// SweepTimeout bounds a single sweep.
	SweepTimeout time.Duration
	Schedules    Schedules
	// Now is the sweep clock; time.Now when nil.
	Now func() time.Time
}

// NewOptions constructs Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxWorkers:   cfg.Worker.MaxWorkers,
		JobTimeout:   cfg.Worker.JobTimeout,
		SweepTimeout: cfg.Worker.SweepTimeout,
		Schedules: Schedules{
			ReapReservations:    cfg.Worker.Schedules.ReapReservations,
			VerificationSweep:   cfg.Worker.Schedules.VerificationSweep,
			ReconfirmationSweep: cfg.Worker.Schedules.ReconfirmationSweep,
			CertificateSweep:    cfg.Worker.Schedules.CertificateSweep,
		},
	}
}

// Deps are the engines the workers drive.
type Deps struct {
	Reservations   reservation.Manager
	Verification   verification.Engine
	Certificates   certificate.Engine
	Reconfirmation reconfirmation.Scheduler
	Notifier       notifier.Notifier
	// Limiter is shared with the certificate provider client; may be nil.
	Limiter *RateLimiter
}

// NewWorkers registers a worker for every job kind.
func NewWorkers(deps Deps, options Options) *river.Workers {
	workers := river.NewWorkers()

	river.AddWorker(workers, NewVerifyDomainWorker(deps.Verification))
	river.AddWorker(workers, NewReconfirmDomainWorker(deps.Reconfirmation))
	river.AddWorker(workers, NewProvisionCertificateWorker(deps.Certificates, deps.Limiter))
	river.AddWorker(workers, NewPollCertificateWorker(deps.Certificates, deps.Limiter))
	river.AddWorker(workers, NewRenewCertificateWorker(deps.Certificates, deps.Limiter))
	river.AddWorker(workers, NewNotifyWorker(deps.Notifier))

	river.AddWorker(workers, NewReapReservationsWorker(deps.Reservations, options))
	river.AddWorker(workers, NewVerificationSweepWorker(deps.Verification, options))
	river.AddWorker(workers, NewReconfirmationSweepWorker(deps.Reconfirmation, options))
	river.AddWorker(workers, NewCertificateSweepWorker(deps.Certificates, options))

	return workers
}

// NewClient builds the queue client without starting it.
func NewClient(ctx context.Context, dbPool *pgxpool.Pool, deps Deps, options Options) (*river.Client[pgx.Tx], error) {
	if options.MaxWorkers <= 0 {
		options.MaxWorkers = defaultMaxWorkers
	}
	if options.Schedules == (Schedules{}) {
		options.Schedules = DefaultSchedules()
	}

	periodic, err := PeriodicJobs(options.Schedules)
	if err != nil {
		return nil, err
	}

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: options.MaxWorkers},
		},
		Workers:      NewWorkers(deps, options),
		PeriodicJobs: periodic,
		JobTimeout:   options.JobTimeout,
		Logger:       logger.Slog(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	return riverClient, nil
}

// Start builds the queue client and starts working jobs.
func Start(ctx context.Context, dbPool *pgxpool.Pool, deps Deps, options Options) (*river.Client[pgx.Tx], error) {
	riverClient, err := NewClient(ctx, dbPool, deps, options)
	if err != nil {
		return nil, err
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
