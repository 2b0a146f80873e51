// Package verification proves that a tenant controls a reserved hostname by
// checking its CNAME record, retrying with exponential backoff up to an
// hourly ceiling.
package verification

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"domainctl/internal/config"
	"domainctl/internal/jobs"
	"domainctl/pkg/dnsresolver"
	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
	"domainctl/pkg/metrics"
	"domainctl/pkg/notifier"
	"domainctl/pkg/storage"
)

const defaultBatchSize = 100

// Options configure the engine.
type Options struct {
	Policy domain.Policy
	// BatchSize bounds how many due domains one sweep queues.
	BatchSize uint
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// NewOptions constructs Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Policy:    cfg.Policy.Domain(),
		BatchSize: cfg.Worker.BatchSize,
	}
}

type engine struct {
	options  Options
	storage  storage.Storage
	resolver dnsresolver.Resolver

	tracer trace.Tracer
	checks metric.Int64Counter
	queued metric.Int64Counter
}

// New creates an Engine.
func New(storage storage.Storage, resolver dnsresolver.Resolver, options Options) Engine {
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.BatchSize == 0 {
		options.BatchSize = defaultBatchSize
	}
	meter := metrics.Meter("verification")

	return &engine{
		options:  options,
		storage:  storage,
		resolver: resolver,
		tracer:   metrics.Tracer("verification"),
		checks:   metrics.Counter(meter, "verification_checks_total", "DNS verification checks by outcome."),
		queued:   metrics.Counter(meter, "verification_jobs_queued_total", "Verification checks queued by sweeps."),
	}
}

// Check is a no-op for domains that are gone, blacklisted, already verified
// or not yet due, so duplicate jobs never change state twice.
func (e *engine) Check(ctx context.Context, id domain.ID) error {
	ctx, span := e.tracer.Start(ctx, "verification.Check", trace.WithAttributes(attribute.String("domain.id", id.String())))
	defer span.End()

	d, err := e.storage.DomainByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not get domain: %w", err)
	}
	if d == nil {
		logger.Debug(ctx, "domain is gone, skipping verification")

		return nil
	}
	ctx = logger.WithFields(ctx, zap.String("hostname", d.Hostname))

	now := e.options.Now().UTC()
	if d.IsBlacklisted || !d.AwaitingVerification() || d.NextCheckAt.After(now) {
		logger.Debug(ctx, "domain is not due for verification",
			zap.String("status", string(d.Status)),
			zap.Bool("blacklisted", d.IsBlacklisted),
			zap.Time("nextCheckAt", d.NextCheckAt))

		return nil
	}

	result := Probe(ctx, e.resolver, d)
	e.checks.Add(ctx, 1, metric.WithAttributes(attribute.String(metrics.AttrOutcome, result.Outcome)))
	if result.Err != nil {
		logger.Warn(ctx, "dns lookup failed", zap.Error(result.Err))
	}

	ev := domain.Event{Kind: domain.EventCheckFailed, Reason: result.Reason}
	if result.Matched {
		ev = domain.Event{Kind: domain.EventCheckSucceeded}
	}
	tr, err := d.Apply(ev, now, e.options.Policy)
	if err != nil {
		return fmt.Errorf("could not apply %s: %w", ev.Kind, err)
	}

	if err := e.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := tx.SaveDomain(ctx, *d); err != nil {
			return fmt.Errorf("could not save domain: %w", err)
		}

		switch {
		case tr.To == domain.StatusVerified:
			if _, err := tx.AddJob(ctx, jobs.ProvisionCertificateArgs{DomainID: d.ID}, nil); err != nil {
				return fmt.Errorf("could not add provisioning job: %w", err)
			}

			return notify(ctx, tx, notifier.NewEvent(notifier.VerificationSucceeded, *d, "", now))
		case tr.CeilingReached:
			return notify(ctx, tx, notifier.NewEvent(notifier.VerificationFailed, *d, d.VerificationError, now))
		}

		return nil
	}); err != nil {
		return fmt.Errorf("could not record verification result: %w", err)
	}

	if tr.To == domain.StatusVerified {
		logger.Info(ctx, "domain verified", zap.Time("nextReconfirmationDue", d.NextReconfirmationDue))
	} else {
		logger.Info(ctx, "domain verification failed",
			zap.String("outcome", result.Outcome),
			zap.Int("attempts", d.VerificationAttempts),
			zap.Time("nextCheckAt", d.NextCheckAt))
	}

	return nil
}

// Sweep queues one unique check per due domain. A failed enqueue is logged
// and the sweep continues.
func (e *engine) Sweep(ctx context.Context, now time.Time) (int, error) {
	ctx, span := e.tracer.Start(ctx, "verification.Sweep")
	defer span.End()

	due, err := e.storage.DueForVerification(ctx, now, e.options.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("could not load domains due for verification: %w", err)
	}

	queued := 0
	for _, d := range due {
		added, err := e.storage.AddJob(ctx, jobs.VerifyDomainArgs{DomainID: d.ID}, nil)
		if err != nil {
			logger.Error(ctx, "could not queue verification", zap.Stringer("domainID", d.ID), zap.Error(err))

			continue
		}
		if added {
			queued++
		}
	}
	e.queued.Add(ctx, int64(queued))

	return queued, nil
}

func notify(ctx context.Context, tx storage.JobStorage, event notifier.Event) error {
	if _, err := tx.AddJob(ctx, jobs.NotifyArgs{Event: event}, nil); err != nil {
		return fmt.Errorf("could not add notification job: %w", err)
	}

	return nil
}
