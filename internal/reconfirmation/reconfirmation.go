// Package reconfirmation periodically re-proves that verified domains still
// point at the platform. A failed reconfirmation moves the domain to ERROR
// and waits for the tenant to restart verification.
package reconfirmation

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
	"domainctl/internal/verification"
	"domainctl/pkg/dnsresolver"
	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
	"domainctl/pkg/metrics"
	"domainctl/pkg/notifier"
	"domainctl/pkg/storage"
)

const defaultBatchSize = 100

// Options configure the scheduler.
type Options struct {
	Policy    domain.Policy
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

type scheduler struct {
	options  Options
	storage  storage.Storage
	resolver dnsresolver.Resolver

	tracer trace.Tracer
	checks metric.Int64Counter
}

// New creates a Scheduler.
func New(storage storage.Storage, resolver dnsresolver.Resolver, options Options) Scheduler {
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.BatchSize == 0 {
		options.BatchSize = defaultBatchSize
	}

	return &scheduler{
		options:  options,
		storage:  storage,
		resolver: resolver,
		tracer:   metrics.Tracer("reconfirmation"),
		checks: metrics.Counter(metrics.Meter("reconfirmation"),
			"reconfirmation_checks_total", "Reconfirmation checks by outcome."),
	}
}

func (s *scheduler) Sweep(ctx context.Context, now time.Time) (int, error) {
	ctx, span := s.tracer.Start(ctx, "reconfirmation.Sweep")
	defer span.End()

	due, err := s.storage.DueForReconfirmation(ctx, now, s.options.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("could not load domains due for reconfirmation: %w", err)
	}

	queued := 0
	for _, d := range due {
		added, err := s.storage.AddJob(ctx, jobs.ReconfirmDomainArgs{DomainID: d.ID}, nil)
		if err != nil {
			logger.Error(ctx, "could not queue reconfirmation", zap.Stringer("domainID", d.ID), zap.Error(err))

			continue
		}
		if added {
			queued++
		}
	}

	return queued, nil
}

func (s *scheduler) Reconfirm(ctx context.Context, id domain.ID) error {
	ctx, span := s.tracer.Start(ctx, "reconfirmation.Reconfirm", trace.WithAttributes(attribute.String("domain.id", id.String())))
	defer span.End()

	d, err := s.storage.DomainByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not get domain: %w", err)
	}
	now := s.options.Now().UTC()
	if d == nil || d.IsBlacklisted || d.Status != domain.StatusVerified || d.NextReconfirmationDue.After(now) {
		logger.Debug(ctx, "domain is not due for reconfirmation")

		return nil
	}
	ctx = logger.WithFields(ctx, zap.String("hostname", d.Hostname))

	result := verification.Probe(ctx, s.resolver, d)
	s.checks.Add(ctx, 1, metric.WithAttributes(attribute.String(metrics.AttrOutcome, result.Outcome)))
	if result.Err != nil {
		logger.Warn(ctx, "dns lookup failed", zap.Error(result.Err))
	}

	ev := domain.Event{Kind: domain.EventReconfirmFailed, Reason: result.Reason}
	if result.Matched {
		ev = domain.Event{Kind: domain.EventReconfirmSucceeded}
	}
	if _, err := d.Apply(ev, now, s.options.Policy); err != nil {
		return fmt.Errorf("could not apply %s: %w", ev.Kind, err)
	}

	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := tx.SaveDomain(ctx, *d); err != nil {
			return fmt.Errorf("could not save domain: %w", err)
		}
		if result.Matched {
			return nil
		}

		event := notifier.NewEvent(notifier.ReconfirmationFailed, *d, d.VerificationError, now)
		if _, err := tx.AddJob(ctx, jobs.NotifyArgs{Event: event}, nil); err != nil {
			return fmt.Errorf("could not add notification job: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("could not record reconfirmation result: %w", err)
	}

	if result.Matched {
		logger.Info(ctx, "domain reconfirmed", zap.Time("nextReconfirmationDue", d.NextReconfirmationDue))
	} else {
		logger.Warn(ctx, "domain reconfirmation failed", zap.String("reason", d.VerificationError))
	}

	return nil
}
