package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"domainctl/pkg/domain"
	"domainctl/pkg/serrors"
	"domainctl/pkg/storage"
)

const (
	domainsTable = "domains"

	uniqueViolation     = "23505"
	hostnameConstraint  = "domains_hostname_uidx"
	tokenConstraint     = "domains_verification_token_uidx"
	defaultSweepLimit   = 500
	defaultOwnerPageMax = 100
)

// CreateDomain inserts d. The unique indexes on hostname and verification
// token make concurrent reservations of the same hostname race-free.
func (p *PgSQL) CreateDomain(ctx context.Context, d domain.Domain) (*domain.Domain, error) {
	if d.Version == 0 {
		d.Version = 1
	}

	var row PgDomain
	if err := row.FromDomain(d); err != nil {
		return nil, err
	}

	var stored PgDomain
	if _, err := p.Builder.Insert(domainsTable).
		Rows(row).
		Returning(&PgDomain{}).
		Executor().ScanStructContext(ctx, &stored); err != nil {
		return nil, mapConstraintError(err)
	}

	return stored.ToDomain()
}

// SaveDomain performs a version-checked update of every mutable column.
func (p *PgSQL) SaveDomain(ctx context.Context, d domain.Domain) (*domain.Domain, error) {
	expected := d.Version
	d.Version = expected + 1
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}

	var row PgDomain
	if err := row.FromDomain(d); err != nil {
		return nil, err
	}

	var stored PgDomain
	found, err := p.Builder.Update(domainsTable).
		Set(row).
		Where(
			goqu.I("id").Eq(uuid.UUID(d.ID)),
			goqu.I("version").Eq(expected),
		).
		Returning(&PgDomain{}).
		Executor().ScanStructContext(ctx, &stored)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	if !found {
		return nil, serrors.Wrap(serrors.ErrConflict, storage.ErrStaleVersion, "could not save domain %s", d.ID)
	}

	return stored.ToDomain()
}

// DeleteDomain deletes the row only if nobody changed it since it was read.
func (p *PgSQL) DeleteDomain(ctx context.Context, id domain.ID, version int64) error {
	res, err := p.Builder.Delete(domainsTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("version").Eq(version),
		).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not delete domain in pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if n == 0 {
		return serrors.Wrap(serrors.ErrConflict, storage.ErrStaleVersion, "could not delete domain %s", id)
	}

	return nil
}

func (p *PgSQL) DomainByID(ctx context.Context, id domain.ID) (*domain.Domain, error) {
	return p.domainBy(ctx, goqu.I("id").Eq(uuid.UUID(id)))
}

func (p *PgSQL) DomainByHostname(ctx context.Context, hostname string) (*domain.Domain, error) {
	return p.domainBy(ctx, goqu.I("hostname").Eq(hostname))
}

func (p *PgSQL) DomainByToken(ctx context.Context, token string) (*domain.Domain, error) {
	return p.domainBy(ctx, goqu.I("verification_token").Eq(token))
}

// OwnerDomains returns owner's domains ordered by created_at DESC, id DESC,
// seeking past cursor on the same pair so rows sharing a created_at are not skipped.
func (p *PgSQL) OwnerDomains(ctx context.Context,
	owner domain.OwnerRef,
	cursor storage.DomainCursor,
	limit uint) (storage.OwnerDomains, error) {
	if limit == 0 || limit > defaultOwnerPageMax {
		limit = defaultOwnerPageMax
	}

	w := []exp.Expression{
		goqu.I("owner_kind").Eq(string(owner.Kind)),
		goqu.I("owner_id").Eq(owner.ID),
	}
	if !cursor.IsZero() {
		w = append(w, goqu.Or(
			goqu.I("created_at").Lt(cursor.CreatedAt),
			goqu.And(
				goqu.I("created_at").Eq(cursor.CreatedAt),
				goqu.I("id").Lt(uuid.UUID(cursor.ID)),
			),
		))
	}

	// fetch one extra to determine if there is a next page
	var rows []PgDomain
	if err := p.Builder.From(domainsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit + 1).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.OwnerDomains{}, fmt.Errorf("could not fetch owner domains from pg: %w", err)
	}

	var nextCursor *storage.DomainCursor
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = &storage.DomainCursor{CreatedAt: last.CreatedAt, ID: domain.ID(last.ID)}
	}

	domains, err := pgDomainsToDomain(rows)
	if err != nil {
		return storage.OwnerDomains{}, err
	}

	return storage.OwnerDomains{Domains: domains, NextCursor: nextCursor}, nil
}

func (p *PgSQL) DueForVerification(ctx context.Context, before time.Time, limit uint) ([]domain.Domain, error) {
	return p.sweep(ctx, "next_check_at", limit,
		goqu.I("status").In(string(domain.StatusReserved), string(domain.StatusPending)),
		goqu.I("next_check_at").Lte(before),
	)
}

func (p *PgSQL) DueForReconfirmation(ctx context.Context, before time.Time, limit uint) ([]domain.Domain, error) {
	return p.sweep(ctx, "next_reconfirmation_due", limit,
		goqu.I("status").Eq(string(domain.StatusVerified)),
		goqu.I("next_reconfirmation_due").Lte(before),
	)
}

func (p *PgSQL) CertificatesExpiring(ctx context.Context,
	before, renewAfter time.Time,
	limit uint) ([]domain.Domain, error) {
	return p.sweep(ctx, "ssl_expires_at", limit,
		goqu.I("status").Eq(string(domain.StatusVerified)),
		goqu.I("ssl_status").In(string(domain.SSLStatusActive), string(domain.SSLStatusExpired)),
		goqu.I("ssl_expires_at").Lte(before),
		goqu.I("ssl_renewing").IsFalse(),
		goqu.Or(
			goqu.I("ssl_renew_after").IsNull(),
			goqu.I("ssl_renew_after").Lte(renewAfter),
		),
	)
}

func (p *PgSQL) CertificatePollsDue(ctx context.Context, before time.Time, limit uint) ([]domain.Domain, error) {
	return p.sweep(ctx, "ssl_next_poll_at", limit,
		goqu.I("status").Eq(string(domain.StatusVerified)),
		goqu.I("ssl_next_poll_at").Lte(before),
		goqu.Or(
			goqu.I("ssl_status").Eq(string(domain.SSLStatusPending)),
			goqu.I("ssl_renewing").IsTrue(),
		),
	)
}

func (p *PgSQL) ActiveCertificatesExpired(ctx context.Context, now time.Time, limit uint) ([]domain.Domain, error) {
	return p.sweep(ctx, "ssl_expires_at", limit,
		goqu.I("ssl_status").Eq(string(domain.SSLStatusActive)),
		goqu.I("ssl_expires_at").Lte(now),
	)
}

func (p *PgSQL) ExpiredReservations(ctx context.Context, now time.Time, limit uint) ([]domain.Domain, error) {
	return p.sweep(ctx, "reserved_until", limit,
		goqu.I("status").Eq(string(domain.StatusReserved)),
		goqu.I("reserved_until").Lt(now),
	)
}

func (p *PgSQL) domainBy(ctx context.Context, where exp.Expression) (*domain.Domain, error) {
	var row PgDomain
	found, err := p.Builder.From(domainsTable).
		Where(where).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch domain from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// sweep selects non-blacklisted domains matching where, oldest deadline first.
func (p *PgSQL) sweep(ctx context.Context, orderBy string, limit uint, where ...exp.Expression) ([]domain.Domain, error) {
	if limit == 0 {
		limit = defaultSweepLimit
	}

	where = append(where, goqu.I("is_blacklisted").IsFalse())

	var rows []PgDomain
	if err := p.Builder.From(domainsTable).
		Where(where...).
		Order(goqu.I(orderBy).Asc(), goqu.I("id").Asc()).
		Limit(limit).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not sweep domains by %s from pg: %w", orderBy, err)
	}

	return pgDomainsToDomain(rows)
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case hostnameConstraint:
			return serrors.Wrap(serrors.ErrConflict, storage.ErrDuplicateHostname, "could not store domain")
		case tokenConstraint:
			return serrors.Wrap(serrors.ErrConflict, storage.ErrDuplicateToken, "could not store domain")
		default:
			return serrors.Wrap(serrors.ErrConflict, err, "could not store domain")
		}
	}

	return fmt.Errorf("could not store domain in pg: %w", err)
}
