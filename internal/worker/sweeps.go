package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"domainctl/internal/certificate"
	"domainctl/internal/jobs"
	"domainctl/internal/reconfirmation"
	"domainctl/internal/reservation"
	"domainctl/internal/verification"
	"domainctl/pkg/logger"
)

// Schedules holds the cron expressions of the periodic sweeps. Descriptors
// such as "@every 1m" are accepted.
type Schedules struct {
	ReapReservations    string
	VerificationSweep   string
	ReconfirmationSweep string
	CertificateSweep    string
}

// DefaultSchedules returns the production sweep schedules.
func DefaultSchedules() Schedules {
	return Schedules{
		ReapReservations:    "@every 1m",
		VerificationSweep:   "@every 1m",
		ReconfirmationSweep: "0 3 * * *",
		CertificateSweep:    "@every 1m",
	}
}

// PeriodicJobs parses schedules into the queue's periodic jobs. Each sweep
// also runs once when the client starts.
func PeriodicJobs(schedules Schedules) ([]*river.PeriodicJob, error) {
	entries := []struct {
		expr string
		args river.JobArgs
	}{
		{schedules.ReapReservations, jobs.ReapReservationsArgs{}},
		{schedules.VerificationSweep, jobs.VerificationSweepArgs{}},
		{schedules.ReconfirmationSweep, jobs.ReconfirmationSweepArgs{}},
		{schedules.CertificateSweep, jobs.CertificateSweepArgs{}},
	}

	periodic := make([]*river.PeriodicJob, 0, len(entries))
	for _, e := range entries {
		schedule, err := cron.ParseStandard(e.expr)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s schedule %q: %w", e.args.Kind(), e.expr, err)
		}

		args := e.args
		periodic = append(periodic, river.NewPeriodicJob(schedule,
			func() (river.JobArgs, *river.InsertOpts) { return args, nil },
			&river.PeriodicJobOpts{RunOnStart: true}))
	}

	return periodic, nil
}

// sweepWorker carries what every sweep shares: the clock and a timeout that
// overrides the client's per-job default, since a sweep walks many domains.
type sweepWorker[T river.JobArgs] struct {
	river.WorkerDefaults[T]

	now     func() time.Time
	timeout time.Duration
}

func (w *sweepWorker[T]) Timeout(*river.Job[T]) time.Duration { return w.timeout }

func newSweepWorker[T river.JobArgs](options Options) sweepWorker[T] {
	now := options.Now
	if now == nil {
		now = time.Now
	}

	return sweepWorker[T]{now: now, timeout: options.SweepTimeout}
}

// ReapReservationsWorker deletes reservations whose hold expired.
type ReapReservationsWorker struct {
	sweepWorker[jobs.ReapReservationsArgs]

	manager reservation.Manager
}

func NewReapReservationsWorker(manager reservation.Manager, options Options) *ReapReservationsWorker {
	return &ReapReservationsWorker{sweepWorker: newSweepWorker[jobs.ReapReservationsArgs](options), manager: manager}
}

func (w *ReapReservationsWorker) Work(ctx context.Context, job *river.Job[jobs.ReapReservationsArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID))

	n, err := w.manager.ReapExpired(ctx, w.now())
	if err != nil {
		return fmt.Errorf("could not reap reservations: %w", err)
	}
	if n > 0 {
		logger.Info(ctx, "reaped expired reservations", zap.Int("count", n))
	}

	return nil
}

// VerificationSweepWorker queues a check for every domain due for verification.
type VerificationSweepWorker struct {
	sweepWorker[jobs.VerificationSweepArgs]

	engine verification.Engine
}

func NewVerificationSweepWorker(engine verification.Engine, options Options) *VerificationSweepWorker {
	return &VerificationSweepWorker{sweepWorker: newSweepWorker[jobs.VerificationSweepArgs](options), engine: engine}
}

func (w *VerificationSweepWorker) Work(ctx context.Context, job *river.Job[jobs.VerificationSweepArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID))

	n, err := w.engine.Sweep(ctx, w.now())
	if err != nil {
		return fmt.Errorf("could not run verification sweep: %w", err)
	}
	logger.Debug(ctx, "verification sweep finished", zap.Int("queued", n))

	return nil
}

// ReconfirmationSweepWorker queues reconfirmation of verified domains whose
// yearly window elapsed.
type ReconfirmationSweepWorker struct {
	sweepWorker[jobs.ReconfirmationSweepArgs]

	scheduler reconfirmation.Scheduler
}

func NewReconfirmationSweepWorker(scheduler reconfirmation.Scheduler, options Options) *ReconfirmationSweepWorker {
	return &ReconfirmationSweepWorker{
		sweepWorker: newSweepWorker[jobs.ReconfirmationSweepArgs](options),
		scheduler:   scheduler,
	}
}

func (w *ReconfirmationSweepWorker) Work(ctx context.Context, job *river.Job[jobs.ReconfirmationSweepArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID))

	n, err := w.scheduler.Sweep(ctx, w.now())
	if err != nil {
		return fmt.Errorf("could not run reconfirmation sweep: %w", err)
	}
	logger.Info(ctx, "reconfirmation sweep finished", zap.Int("queued", n))

	return nil
}

// CertificateSweepWorker expires lapsed certificates and queues renewals and
// pending certificate work.
type CertificateSweepWorker struct {
	sweepWorker[jobs.CertificateSweepArgs]

	engine certificate.Engine
}

func NewCertificateSweepWorker(engine certificate.Engine, options Options) *CertificateSweepWorker {
	return &CertificateSweepWorker{sweepWorker: newSweepWorker[jobs.CertificateSweepArgs](options), engine: engine}
}

func (w *CertificateSweepWorker) Work(ctx context.Context, job *river.Job[jobs.CertificateSweepArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID))

	res, err := w.engine.Sweep(ctx, w.now())
	if err != nil {
		return fmt.Errorf("could not run certificate sweep: %w", err)
	}
	logger.Debug(ctx, "certificate sweep finished",
		zap.Int("expired", res.Expired),
		zap.Int("renewals", res.Renewals),
		zap.Int("polls", res.Polls),
		zap.Int("provision", res.Provision))

	return nil
}
