package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"domainctl/internal/certificate"
	"domainctl/internal/jobs"
	"domainctl/internal/reconfirmation"
	"domainctl/internal/verification"
	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
	"domainctl/pkg/metrics"
	"domainctl/pkg/notifier"
	"domainctl/pkg/serrors"
)

// minSnooze keeps a rate-limited job from being picked up again immediately
// when the reset time is unknown or already passed.
const minSnooze = time.Second

// domainContext attaches the job and domain ids to the context logger.
func domainContext(ctx context.Context, jobID int64, id domain.ID) context.Context {
	return logger.WithFields(ctx, zap.Int64("jobID", jobID), zap.Stringer("domainID", id))
}

// outcome maps an engine error onto a queue action:
//   - a domain that is gone or blacklisted cancels the job,
//   - an upstream rate limit snoozes it until the limiter's window resets,
//   - anything else is returned so the queue retries with its backoff.
func outcome(ctx context.Context, limiter *RateLimiter, err error, action string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, serrors.ErrNotFound), errors.Is(err, serrors.ErrBlacklisted):
		logger.Info(ctx, "canceling job", zap.String("action", action), zap.Error(err))

		return river.JobCancel(err) //nolint: wrapcheck
	case errors.Is(err, serrors.ErrRateLimited):
		dur := minSnooze
		if limiter != nil {
			dur = max(limiter.ResetIn(), minSnooze)
		}
		logger.Warn(ctx, "provider rate limited, snoozing job", zap.String("action", action), zap.Duration("snooze", dur))

		return river.JobSnooze(dur) //nolint: wrapcheck
	}

	logger.Error(ctx, "job failed", zap.String("action", action), zap.Error(err))

	return fmt.Errorf("could not %s: %w", action, err)
}

// VerifyDomainWorker runs one DNS verification check.
type VerifyDomainWorker struct {
	river.WorkerDefaults[jobs.VerifyDomainArgs]

	engine verification.Engine
}

func NewVerifyDomainWorker(engine verification.Engine) *VerifyDomainWorker {
	return &VerifyDomainWorker{engine: engine}
}

func (w *VerifyDomainWorker) Work(ctx context.Context, job *river.Job[jobs.VerifyDomainArgs]) error {
	ctx = domainContext(ctx, job.ID, job.Args.DomainID)

	return outcome(ctx, nil, w.engine.Check(ctx, job.Args.DomainID), "verify domain")
}

// ReconfirmDomainWorker re-checks ownership of a verified domain.
type ReconfirmDomainWorker struct {
	river.WorkerDefaults[jobs.ReconfirmDomainArgs]

	scheduler reconfirmation.Scheduler
}

func NewReconfirmDomainWorker(scheduler reconfirmation.Scheduler) *ReconfirmDomainWorker {
	return &ReconfirmDomainWorker{scheduler: scheduler}
}

func (w *ReconfirmDomainWorker) Work(ctx context.Context, job *river.Job[jobs.ReconfirmDomainArgs]) error {
	ctx = domainContext(ctx, job.ID, job.Args.DomainID)

	return outcome(ctx, nil, w.scheduler.Reconfirm(ctx, job.Args.DomainID), "reconfirm domain")
}

// ProvisionCertificateWorker creates a certificate binding. Provider calls
// share limiter, so a rate-limited job waits for the same window as the
// requests that exhausted it.
type ProvisionCertificateWorker struct {
	river.WorkerDefaults[jobs.ProvisionCertificateArgs]

	engine  certificate.Engine
	limiter *RateLimiter
}

func NewProvisionCertificateWorker(engine certificate.Engine, limiter *RateLimiter) *ProvisionCertificateWorker {
	return &ProvisionCertificateWorker{engine: engine, limiter: limiter}
}

func (w *ProvisionCertificateWorker) Work(ctx context.Context, job *river.Job[jobs.ProvisionCertificateArgs]) error {
	ctx = domainContext(ctx, job.ID, job.Args.DomainID)

	return outcome(ctx, w.limiter, w.engine.Provision(ctx, job.Args.DomainID), "provision certificate")
}

// PollCertificateWorker queries the binding once and snoozes itself until the
// next poll is due instead of sleeping on a worker slot.
type PollCertificateWorker struct {
	river.WorkerDefaults[jobs.PollCertificateArgs]

	engine  certificate.Engine
	limiter *RateLimiter
}

func NewPollCertificateWorker(engine certificate.Engine, limiter *RateLimiter) *PollCertificateWorker {
	return &PollCertificateWorker{engine: engine, limiter: limiter}
}

func (w *PollCertificateWorker) Work(ctx context.Context, job *river.Job[jobs.PollCertificateArgs]) error {
	ctx = domainContext(ctx, job.ID, job.Args.DomainID)

	res, err := w.engine.Poll(ctx, job.Args.DomainID)
	if err != nil {
		return outcome(ctx, w.limiter, err, "poll certificate")
	}
	if !res.Again {
		return nil
	}

	dur := max(time.Until(res.At), 0)
	logger.Debug(ctx, "certificate pending, snoozing poll", zap.Duration("snooze", dur))

	return river.JobSnooze(dur) //nolint: wrapcheck
}

// RenewCertificateWorker starts a renewal.
type RenewCertificateWorker struct {
	river.WorkerDefaults[jobs.RenewCertificateArgs]

	engine  certificate.Engine
	limiter *RateLimiter
}

func NewRenewCertificateWorker(engine certificate.Engine, limiter *RateLimiter) *RenewCertificateWorker {
	return &RenewCertificateWorker{engine: engine, limiter: limiter}
}

func (w *RenewCertificateWorker) Work(ctx context.Context, job *river.Job[jobs.RenewCertificateArgs]) error {
	ctx = domainContext(ctx, job.ID, job.Args.DomainID)

	return outcome(ctx, w.limiter, w.engine.Renew(ctx, job.Args.DomainID), "renew certificate")
}

// NotifyWorker delivers one notification. A failed delivery is retried by the
// queue and never touches the domain state that produced it.
type NotifyWorker struct {
	river.WorkerDefaults[jobs.NotifyArgs]

	notifier   notifier.Notifier
	deliveries metric.Int64Counter
}

func NewNotifyWorker(n notifier.Notifier) *NotifyWorker {
	return &NotifyWorker{
		notifier:   n,
		deliveries: metrics.Counter(metrics.Meter("worker"), "notifications_total", "Notification deliveries by event and outcome."),
	}
}

func (w *NotifyWorker) Work(ctx context.Context, job *river.Job[jobs.NotifyArgs]) error {
	event := job.Args.Event
	ctx = logger.WithFields(domainContext(ctx, job.ID, event.DomainID),
		zap.String("event", string(event.Type)),
		zap.Int("attempt", job.Attempt))

	err := w.notifier.Notify(ctx, event)

	result := "delivered"
	if err != nil {
		result = "failed"
	}
	w.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String(metrics.AttrEvent, string(event.Type)),
		attribute.String(metrics.AttrOutcome, result)))

	if err != nil {
		logger.Warn(ctx, "notification delivery failed", zap.Error(err))

		return fmt.Errorf("could not deliver notification: %w", err)
	}

	return nil
}
