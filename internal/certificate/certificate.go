// Package certificate drives the TLS certificate of a verified domain through
// provisioning, status polling, renewal and expiry using a prioritized chain
// of certificate providers.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"domainctl/internal/config"
	"domainctl/internal/jobs"
	"domainctl/pkg/certprovider"
	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
	"domainctl/pkg/metrics"
	"domainctl/pkg/notifier"
	"domainctl/pkg/serrors"
	"domainctl/pkg/storage"
)

const (
	defaultBatchSize = 100

	deferredWarning = "certificate providers are unavailable, retrying later"
)

// Options configure the engine.
type Options struct {
	Policy domain.Policy
	// BatchSize bounds each query of a sweep.
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
	options Options
	storage storage.Storage
	chain   *certprovider.Chain

	tracer    trace.Tracer
	provision metric.Int64Counter
	polls     metric.Int64Counter
	renewals  metric.Int64Counter
}

// New creates an Engine on top of a provider chain.
func New(storage storage.Storage, chain *certprovider.Chain, options Options) Engine {
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.BatchSize == 0 {
		options.BatchSize = defaultBatchSize
	}
	meter := metrics.Meter("certificate")

	return &engine{
		options:   options,
		storage:   storage,
		chain:     chain,
		tracer:    metrics.Tracer("certificate"),
		provision: metrics.Counter(meter, "certificate_provisioning_total", "Provisioning attempts by provider and outcome."),
		polls:     metrics.Counter(meter, "certificate_polls_total", "Certificate status polls by provider and outcome."),
		renewals:  metrics.Counter(meter, "certificate_renewals_total", "Renewal attempts by provider and outcome."),
	}
}

func (e *engine) now() time.Time { return e.options.Now().UTC() }

func (e *engine) load(ctx context.Context, id domain.ID) (*domain.Domain, error) {
	d, err := e.storage.DomainByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get domain: %w", err)
	}

	return d, nil
}

// Provision binds the hostname with the first provider that accepts it. When
// every provider refuses, the certificate goes to ERROR. Transient failures
// leave it PENDING for the sweep to retry.
func (e *engine) Provision(ctx context.Context, id domain.ID) error {
	ctx, span := e.tracer.Start(ctx, "certificate.Provision", trace.WithAttributes(attribute.String("domain.id", id.String())))
	defer span.End()

	d, err := e.load(ctx, id)
	if err != nil {
		return err
	}
	if d == nil || !d.NeedsCertificate() {
		logger.Debug(ctx, "domain does not need a certificate")

		return nil
	}
	ctx = logger.WithFields(ctx, zap.String("hostname", d.Hostname))

	if d.ProviderHandle != nil {
		// already bound; make sure somebody polls it
		if _, err := e.storage.AddJob(ctx, jobs.PollCertificateArgs{DomainID: d.ID}, nil); err != nil {
			return fmt.Errorf("could not add poll job: %w", err)
		}

		return nil
	}

	handle, err := e.chain.Create(ctx, d.Hostname, "")
	now := e.now()
	switch {
	case err == nil:
		e.record(ctx, e.provision, handle.Provider, "accepted")
		d.BindingCreated(handle, false, now, e.options.Policy)

		return e.saveAndPoll(ctx, d)
	case certprovider.Rejected(err):
		e.record(ctx, e.provision, "", "rejected")
		logger.Warn(ctx, "every certificate provider rejected the hostname", zap.Error(err))
		d.CertificateFailed("certificate request was rejected by every provider", now)
	default:
		e.record(ctx, e.provision, "", "deferred")
		logger.Warn(ctx, "certificate provisioning deferred", zap.Error(err))
		d.ProvisioningDeferred(deferredWarning, now, e.options.Policy)
	}

	return e.save(ctx, d, nil)
}

// Poll runs exactly one status query. A provider error counts as pending.
// A binding that failed during first provisioning is retried once with the
// next provider of the chain.
func (e *engine) Poll(ctx context.Context, id domain.ID) (PollResult, error) {
	ctx, span := e.tracer.Start(ctx, "certificate.Poll", trace.WithAttributes(attribute.String("domain.id", id.String())))
	defer span.End()

	d, err := e.load(ctx, id)
	if err != nil {
		return PollResult{}, err
	}
	if d == nil || d.IsBlacklisted || d.Status != domain.StatusVerified || !d.Polling() {
		logger.Debug(ctx, "no certificate binding to poll")

		return PollResult{}, nil
	}
	ctx = logger.WithFields(ctx, zap.String("hostname", d.Hostname), zap.String("provider", string(d.SSLProvider)))

	now := e.now()
	if d.SSLNextPollAt.After(now) {
		return PollResult{Again: true, At: d.SSLNextPollAt}, nil
	}

	handle := *d.ProviderHandle
	status, err := e.chain.Query(ctx, handle)
	if err != nil {
		logger.Warn(ctx, "certificate status query failed", zap.Error(err))
		status = certprovider.Status{State: certprovider.StatePending}
	}
	e.record(ctx, e.polls, handle.Provider, string(status.State))

	switch status.State {
	case certprovider.StateActive:
		renewed := d.CertificateActive(now, e.options.Policy)
		var event *notifier.Event
		if renewed {
			ev := notifier.NewEvent(notifier.SslRenewed, *d, "", now)
			event = &ev
			e.record(ctx, e.renewals, handle.Provider, "renewed")
		}
		logger.Info(ctx, "certificate active", zap.Time("expiresAt", d.SSLExpiresAt), zap.Bool("renewal", renewed))

		return PollResult{}, e.save(ctx, d, event)

	case certprovider.StateError:
		return e.pollFailed(ctx, d, status.Message, now)

	default:
		if d.PollPending(now, e.options.Policy) {
			if err := e.save(ctx, d, nil); err != nil {
				return PollResult{}, err
			}

			return PollResult{Again: true, At: d.SSLNextPollAt}, nil
		}
		logger.Warn(ctx, "certificate poll budget exhausted", zap.Time("nextPollAt", d.SSLNextPollAt))

		return PollResult{}, e.save(ctx, d, nil)
	}
}

func (e *engine) pollFailed(ctx context.Context, d *domain.Domain, msg string, now time.Time) (PollResult, error) {
	if msg == "" {
		msg = "certificate issuance failed"
	}

	if d.SSLRenewing {
		logger.Warn(ctx, "certificate renewal failed", zap.String("reason", msg))
		e.record(ctx, e.renewals, d.SSLProvider, "failed")
		d.RenewalFailed(msg, now, e.options.Policy)
		ev := notifier.NewEvent(notifier.SslRenewalFailed, *d, msg, now)

		return PollResult{}, e.save(ctx, d, &ev)
	}

	failed := *d.ProviderHandle
	handle, err := e.chain.Create(ctx, d.Hostname, failed.Provider)
	switch {
	case err == nil:
		logger.Info(ctx, "falling back to the next certificate provider",
			zap.String("reason", msg), zap.String("next", string(handle.Provider)))
		e.record(ctx, e.provision, handle.Provider, "fallback")
		if err := e.chain.Delete(ctx, failed); err != nil {
			logger.Warn(ctx, "could not delete failed binding", zap.Error(err))
		}
		d.BindingCreated(handle, false, now, e.options.Policy)
		if err := e.save(ctx, d, nil); err != nil {
			return PollResult{}, err
		}

		return PollResult{Again: true, At: d.SSLNextPollAt}, nil
	case certprovider.Rejected(err):
		logger.Warn(ctx, "certificate issuance failed", zap.String("reason", msg), zap.Error(err))
		d.CertificateFailed(msg, now)
	default:
		// keep the failed handle: the next sweep polls it and tries the fallback again
		logger.Warn(ctx, "fallback certificate provider unavailable", zap.Error(err))
		d.ProvisioningDeferred(deferredWarning, now, e.options.Policy)
	}

	return PollResult{}, e.save(ctx, d, nil)
}

// Renew re-runs provisioning with the provider of the current certificate.
// A failure keeps the live certificate and alerts the tenant.
func (e *engine) Renew(ctx context.Context, id domain.ID) error {
	ctx, span := e.tracer.Start(ctx, "certificate.Renew", trace.WithAttributes(attribute.String("domain.id", id.String())))
	defer span.End()

	d, err := e.load(ctx, id)
	if err != nil {
		return err
	}
	now := e.now()
	if d == nil || !d.RenewalDue(now, e.options.Policy) {
		logger.Debug(ctx, "certificate is not due for renewal")

		return nil
	}
	ctx = logger.WithFields(ctx, zap.String("hostname", d.Hostname), zap.String("provider", string(d.SSLProvider)))

	provider := d.SSLProvider
	if provider == "" && d.ProviderHandle != nil {
		provider = d.ProviderHandle.Provider
	}

	handle, err := e.chain.CreateWith(ctx, provider, d.Hostname)
	if err != nil {
		if serrors.IsKind(err, serrors.ErrRateLimited) {
			return fmt.Errorf("could not start renewal: %w", err)
		}

		logger.Warn(ctx, "certificate renewal could not start", zap.Error(err))
		e.record(ctx, e.renewals, provider, "failed")
		msg := "certificate renewal request failed"
		if certprovider.Rejected(err) {
			msg = "certificate renewal was rejected by the provider"
		}
		d.RenewalFailed(msg, now, e.options.Policy)
		ev := notifier.NewEvent(notifier.SslRenewalFailed, *d, msg, now)

		return e.save(ctx, d, &ev)
	}

	e.record(ctx, e.renewals, handle.Provider, "started")
	d.BindingCreated(handle, true, now, e.options.Policy)
	logger.Info(ctx, "certificate renewal started", zap.Time("expiresAt", d.SSLExpiresAt))

	return e.saveAndPoll(ctx, d)
}

// Deprovision deletes the binding. A provider that already forgot it is fine.
func (e *engine) Deprovision(ctx context.Context, d domain.Domain) error {
	ctx, span := e.tracer.Start(ctx, "certificate.Deprovision", trace.WithAttributes(attribute.String("domain.id", d.ID.String())))
	defer span.End()

	if d.ProviderHandle == nil {
		return nil
	}

	if err := e.chain.Delete(ctx, *d.ProviderHandle); err != nil {
		if errors.Is(err, serrors.ErrNotFound) || errors.Is(err, certprovider.ErrUnknownProvider) {
			logger.Warn(ctx, "certificate binding already gone", zap.Error(err))

			return nil
		}

		return fmt.Errorf("could not deprovision %s: %w", d.Hostname, err)
	}

	logger.Info(ctx, "certificate binding deleted",
		zap.String("hostname", d.Hostname),
		zap.String("provider", string(d.ProviderHandle.Provider)))

	return nil
}

// Sweep moves lapsed certificates to EXPIRED, queues renewals inside the
// renewal window and queues polls or provisioning that fell due.
func (e *engine) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	ctx, span := e.tracer.Start(ctx, "certificate.Sweep")
	defer span.End()

	var res SweepResult
	p := e.options.Policy

	lapsed, err := e.storage.ActiveCertificatesExpired(ctx, now, e.options.BatchSize)
	if err != nil {
		return res, fmt.Errorf("could not load expired certificates: %w", err)
	}
	for _, d := range lapsed {
		if !d.CertificateExpired(now) {
			continue
		}
		if _, err := e.storage.SaveDomain(ctx, d); err != nil {
			logger.Error(ctx, "could not expire certificate", zap.Stringer("domainID", d.ID), zap.Error(err))

			continue
		}
		logger.Warn(ctx, "certificate expired", zap.Stringer("domainID", d.ID), zap.String("hostname", d.Hostname))
		res.Expired++
	}

	expiring, err := e.storage.CertificatesExpiring(ctx, now.Add(p.RenewalWindow), now, e.options.BatchSize)
	if err != nil {
		return res, fmt.Errorf("could not load expiring certificates: %w", err)
	}
	for _, d := range expiring {
		if e.enqueue(ctx, d.ID, jobs.RenewCertificateArgs{DomainID: d.ID}) {
			res.Renewals++
		}
	}

	due, err := e.storage.CertificatePollsDue(ctx, now, e.options.BatchSize)
	if err != nil {
		return res, fmt.Errorf("could not load due certificate polls: %w", err)
	}
	for _, d := range due {
		if d.ProviderHandle == nil {
			if e.enqueue(ctx, d.ID, jobs.ProvisionCertificateArgs{DomainID: d.ID}) {
				res.Provision++
			}

			continue
		}
		if e.enqueue(ctx, d.ID, jobs.PollCertificateArgs{DomainID: d.ID}) {
			res.Polls++
		}
	}

	return res, nil
}

func (e *engine) enqueue(ctx context.Context, id domain.ID, args river.JobArgs) bool {
	added, err := e.storage.AddJob(ctx, args, nil)
	if err != nil {
		logger.Error(ctx, "could not queue certificate job",
			zap.Stringer("domainID", id), zap.String("kind", args.Kind()), zap.Error(err))

		return false
	}

	return added
}

// saveAndPoll saves d and schedules a poll at d.SSLNextPollAt in one transaction.
func (e *engine) saveAndPoll(ctx context.Context, d *domain.Domain) error {
	if err := e.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := tx.SaveDomain(ctx, *d); err != nil {
			return fmt.Errorf("could not save domain: %w", err)
		}
		if _, err := tx.AddJob(ctx, jobs.PollCertificateArgs{DomainID: d.ID}, jobs.At(d.SSLNextPollAt)); err != nil {
			return fmt.Errorf("could not add poll job: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("could not record certificate binding: %w", err)
	}

	return nil
}

// save writes d and, when event is set, queues its notification in the same transaction.
func (e *engine) save(ctx context.Context, d *domain.Domain, event *notifier.Event) error {
	if err := e.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := tx.SaveDomain(ctx, *d); err != nil {
			return fmt.Errorf("could not save domain: %w", err)
		}
		if event != nil {
			if _, err := tx.AddJob(ctx, jobs.NotifyArgs{Event: *event}, nil); err != nil {
				return fmt.Errorf("could not add notification job: %w", err)
			}
		}

		return nil
	}); err != nil {
		return fmt.Errorf("could not record certificate state: %w", err)
	}

	return nil
}

func (e *engine) record(ctx context.Context, c metric.Int64Counter, provider domain.SSLProvider, outcome string) {
	c.Add(ctx, 1, metric.WithAttributes(
		attribute.String(metrics.AttrProvider, string(provider)),
		attribute.String(metrics.AttrOutcome, outcome)))
}
