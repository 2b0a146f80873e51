// Package reservation creates time-boxed hostname reservations, reaps the
// abandoned ones and serves the tenant-facing domain operations.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"domainctl/internal/config"
	"domainctl/internal/jobs"
	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
	"domainctl/pkg/metrics"
	"domainctl/pkg/serrors"
	"domainctl/pkg/storage"
)

const defaultBatchSize = 100

// Options configure the manager.
type Options struct {
	// CNAMEBase is the platform zone verification targets live under, e.g.
	// "cname.shortlinks.net". Hostnames under it cannot be reserved.
	CNAMEBase string
	Policy    domain.Policy
	// BatchSize bounds how many expired reservations are loaded at once.
	BatchSize uint
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// NewOptions constructs Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		CNAMEBase: cfg.Verification.CNAMEBase,
		Policy:    cfg.Policy.Domain(),
		BatchSize: cfg.Worker.BatchSize,
	}
}

type manager struct {
	options       Options
	storage       storage.Storage
	deprovisioner Deprovisioner

	tracer   trace.Tracer
	reserved metric.Int64Counter
	reaped   metric.Int64Counter
}

// New creates a Manager. deprovisioner is called before a domain is deleted.
func New(storage storage.Storage, deprovisioner Deprovisioner, options Options) Manager {
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.BatchSize == 0 {
		options.BatchSize = defaultBatchSize
	}
	meter := metrics.Meter("reservation")

	return &manager{
		options:       options,
		storage:       storage,
		deprovisioner: deprovisioner,
		tracer:        metrics.Tracer("reservation"),
		reserved:      metrics.Counter(meter, "reservations_total", "Reservation attempts by outcome."),
		reaped:        metrics.Counter(meter, "reservations_reaped_total", "Expired reservations deleted."),
	}
}

func (m *manager) now() time.Time { return m.options.Now().UTC() }

// Reserve claims hostname for owner. The first verification check is queued
// in the same transaction.
func (m *manager) Reserve(ctx context.Context, hostname string, owner domain.OwnerRef) (*domain.Domain, error) {
	ctx, span := m.tracer.Start(ctx, "reservation.Reserve")
	defer span.End()

	if !owner.Valid() {
		return nil, serrors.With(serrors.ErrBadRequest, "invalid owner")
	}
	normalized, err := NormalizeHostname(hostname, m.options.CNAMEBase)
	if err != nil {
		m.record(ctx, "invalid")

		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid hostname")
	}
	span.SetAttributes(attribute.String("hostname", normalized))

	var reserved *domain.Domain
	// a token collision is retried once with a fresh token
	for attempt := 0; attempt < 2; attempt++ {
		reserved, err = m.reserve(ctx, normalized, owner)
		if err == nil || !errors.Is(err, storage.ErrDuplicateToken) {
			break
		}
		logger.Warn(ctx, "verification token collision, retrying", zap.String("hostname", normalized))
	}
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateHostname) {
			m.record(ctx, "duplicate")

			return nil, serrors.Wrap(serrors.ErrConflict, err, "hostname %s is already registered", normalized)
		}
		m.record(ctx, "error")

		return nil, fmt.Errorf("could not reserve hostname: %w", err)
	}

	m.record(ctx, "reserved")
	logger.Info(ctx, "hostname reserved",
		zap.String("hostname", normalized),
		zap.Stringer("domainID", reserved.ID),
		zap.Stringer("owner", owner))

	return reserved, nil
}

func (m *manager) reserve(ctx context.Context, hostname string, owner domain.OwnerRef) (*domain.Domain, error) {
	token := newToken()
	d := domain.NewReservation(hostname, token, m.cnameTarget(token), owner, m.now(), m.options.Policy)

	var created *domain.Domain
	if err := m.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		created, err = tx.CreateDomain(ctx, d)
		if err != nil {
			return fmt.Errorf("could not store domain: %w", err)
		}

		if _, err := tx.AddJob(ctx, jobs.VerifyDomainArgs{DomainID: created.ID}, nil); err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err //nolint: wrapcheck
	}

	return created, nil
}

func (m *manager) cnameTarget(token string) string {
	base := domain.NormalizeFQDN(m.options.CNAMEBase)
	if base == "" {
		return token
	}

	return token + "." + base
}

func (m *manager) record(ctx context.Context, outcome string) {
	m.reserved.Add(ctx, 1, metric.WithAttributes(attribute.String(metrics.AttrOutcome, outcome)))
}

// newToken returns a random, unguessable token usable as a DNS label.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ReapExpired deletes RESERVED domains whose deadline passed. A reservation
// that changed since it was loaded is skipped.
func (m *manager) ReapExpired(ctx context.Context, now time.Time) (int, error) {
	ctx, span := m.tracer.Start(ctx, "reservation.ReapExpired")
	defer span.End()

	total := 0
	for {
		expired, err := m.storage.ExpiredReservations(ctx, now, m.options.BatchSize)
		if err != nil {
			return total, fmt.Errorf("could not load expired reservations: %w", err)
		}

		deleted := 0
		for _, d := range expired {
			if err := m.storage.DeleteDomain(ctx, d.ID, d.Version); err != nil {
				if errors.Is(err, serrors.ErrConflict) {
					logger.Debug(ctx, "reservation changed before reaping", zap.Stringer("domainID", d.ID))

					continue
				}

				return total, fmt.Errorf("could not delete reservation: %w", err)
			}
			deleted++
			logger.Info(ctx, "reservation expired",
				zap.Stringer("domainID", d.ID),
				zap.String("hostname", d.Hostname),
				zap.Time("reservedUntil", d.ReservedUntil))
		}
		total += deleted
		m.reaped.Add(ctx, int64(deleted))

		if uint(len(expired)) < m.options.BatchSize || deleted == 0 {
			return total, nil
		}
	}
}

// Get returns the domain if owner owns it.
func (m *manager) Get(ctx context.Context, owner domain.OwnerRef, id domain.ID) (*domain.Domain, error) {
	d, err := m.storage.DomainByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get domain: %w", err)
	}
	if d == nil || !d.OwnedBy(owner) {
		return nil, serrors.With(serrors.ErrNotFound, "domain not found")
	}

	return d, nil
}

// List returns a page of the owner's domains. The cursor is the opaque value
// returned by the previous page.
func (m *manager) List(ctx context.Context,
	owner domain.OwnerRef,
	cursor string,
	limit uint) ([]domain.Domain, string, error) {
	var from storage.DomainCursor
	if cursor != "" {
		c, err := storage.ParseDomainCursor(cursor)
		if err != nil {
			return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
		from = c
	}

	page, err := m.storage.OwnerDomains(ctx, owner, from, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not list domains: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.String()
	}

	return page.Domains, next, nil
}

// Delete removes the certificate binding and then the domain.
func (m *manager) Delete(ctx context.Context, owner domain.OwnerRef, id domain.ID) error {
	ctx, span := m.tracer.Start(ctx, "reservation.Delete")
	defer span.End()

	d, err := m.Get(ctx, owner, id)
	if err != nil {
		return err
	}

	if m.deprovisioner != nil {
		if err := m.deprovisioner.Deprovision(ctx, *d); err != nil {
			return fmt.Errorf("could not deprovision certificate: %w", err)
		}
	}

	if err := m.storage.DeleteDomain(ctx, d.ID, d.Version); err != nil {
		return fmt.Errorf("could not delete domain: %w", err)
	}

	logger.Info(ctx, "domain deleted", zap.Stringer("domainID", d.ID), zap.String("hostname", d.Hostname))

	return nil
}

// Reverify restarts verification of a PENDING or ERROR domain and queues a
// check right away.
func (m *manager) Reverify(ctx context.Context, owner domain.OwnerRef, id domain.ID) (*domain.Domain, error) {
	d, err := m.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if _, err := d.Apply(domain.Event{Kind: domain.EventVerificationRestarted}, m.now(), m.options.Policy); err != nil {
		if errors.Is(err, domain.ErrBlacklisted) {
			return nil, serrors.Wrap(serrors.ErrBlacklisted, err, "domain is blacklisted")
		}

		return nil, serrors.Wrap(serrors.ErrConflict, err, "domain cannot be re-verified while %s", d.Status)
	}

	var saved *domain.Domain
	if err := m.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		saved, err = tx.SaveDomain(ctx, *d)
		if err != nil {
			return fmt.Errorf("could not save domain: %w", err)
		}
		if _, err := tx.AddJob(ctx, jobs.VerifyDomainArgs{DomainID: d.ID}, nil); err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not restart verification: %w", err)
	}

	logger.Info(ctx, "verification restarted", zap.Stringer("domainID", d.ID), zap.String("hostname", d.Hostname))

	return saved, nil
}

// Blacklist blocks every further transition of the domain registered for hostname.
func (m *manager) Blacklist(ctx context.Context, hostname, reason string) (*domain.Domain, error) {
	normalized, err := NormalizeHostname(hostname, "")
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid hostname")
	}

	d, err := m.storage.DomainByHostname(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("could not get domain: %w", err)
	}
	if d == nil {
		return nil, serrors.With(serrors.ErrNotFound, "domain %s not found", normalized)
	}

	d.Blacklist(reason)
	d.UpdatedAt = m.now()
	saved, err := m.storage.SaveDomain(ctx, *d)
	if err != nil {
		return nil, fmt.Errorf("could not save domain: %w", err)
	}

	logger.Warn(ctx, "domain blacklisted",
		zap.Stringer("domainID", d.ID),
		zap.String("hostname", d.Hostname),
		zap.String("reason", reason))

	return saved, nil
}
