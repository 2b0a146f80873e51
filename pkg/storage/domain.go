package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"domainctl/pkg/domain"
)

// DomainCursor is the (created_at, id) keyset of the last row of a page.
// The zero value starts at the newest domain.
type DomainCursor struct {
	CreatedAt time.Time
	ID        domain.ID
}

func (c DomainCursor) IsZero() bool {
	return c.CreatedAt.IsZero()
}

// Before reports whether d sorts after the cursor, newest first.
func (c DomainCursor) Before(d *domain.Domain) bool {
	if c.IsZero() {
		return true
	}
	if !d.CreatedAt.Equal(c.CreatedAt) {
		return d.CreatedAt.Before(c.CreatedAt)
	}

	return bytes.Compare(d.ID[:], c.ID[:]) < 0
}

// String encodes the cursor as "<RFC3339Nano created_at>_<id>".
func (c DomainCursor) String() string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + "_" + c.ID.String()
}

// ParseDomainCursor decodes a cursor produced by DomainCursor.String.
func ParseDomainCursor(s string) (DomainCursor, error) {
	ts, id, ok := strings.Cut(s, "_")
	if !ok {
		return DomainCursor{}, fmt.Errorf("malformed cursor %q", s)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return DomainCursor{}, fmt.Errorf("could not parse cursor time: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return DomainCursor{}, fmt.Errorf("could not parse cursor id: %w", err)
	}

	return DomainCursor{CreatedAt: createdAt, ID: domain.ID(parsed)}, nil
}

// OwnerDomains is one page of a tenant's domains.
type OwnerDomains struct {
	Domains []domain.Domain
	// NextCursor points at the last row when another page exists.
	NextCursor *DomainCursor
}

// DomainStorage persists the domain aggregate. Lookups return (nil, nil) when
// the record does not exist.
type DomainStorage interface {
	// CreateDomain inserts a new domain. A hostname or token collision returns
	// a serrors.ErrConflict wrapping ErrDuplicateHostname or ErrDuplicateToken.
	CreateDomain(ctx context.Context, d domain.Domain) (*domain.Domain, error)
	// SaveDomain writes d if the stored version still equals d.Version and
	// returns the stored row with the incremented version. A stale or deleted
	// record returns a serrors.ErrConflict wrapping ErrStaleVersion.
	SaveDomain(ctx context.Context, d domain.Domain) (*domain.Domain, error)
	// DeleteDomain removes the domain if its version still matches.
	DeleteDomain(ctx context.Context, id domain.ID, version int64) error

	DomainByID(ctx context.Context, id domain.ID) (*domain.Domain, error)
	DomainByHostname(ctx context.Context, hostname string) (*domain.Domain, error)
	DomainByToken(ctx context.Context, token string) (*domain.Domain, error)
	// OwnerDomains pages through owner's domains ordered by (created_at, id)
	// descending, starting after cursor.
	OwnerDomains(ctx context.Context, owner domain.OwnerRef, cursor DomainCursor, limit uint) (OwnerDomains, error)

	// DueForVerification returns RESERVED and PENDING domains with next_check_at <= before.
	DueForVerification(ctx context.Context, before time.Time, limit uint) ([]domain.Domain, error)
	// DueForReconfirmation returns VERIFIED domains with next_reconfirmation_due <= before.
	DueForReconfirmation(ctx context.Context, before time.Time, limit uint) ([]domain.Domain, error)
	// CertificatesExpiring returns VERIFIED domains with an ACTIVE or EXPIRED
	// certificate expiring at or before before, not currently renewing, whose
	// renewal throttle elapsed at renewAfter.
	CertificatesExpiring(ctx context.Context, before, renewAfter time.Time, limit uint) ([]domain.Domain, error)
	// CertificatePollsDue returns VERIFIED domains whose certificate is pending
	// or renewing with ssl_next_poll_at <= before.
	CertificatePollsDue(ctx context.Context, before time.Time, limit uint) ([]domain.Domain, error)
	// ActiveCertificatesExpired returns domains whose ACTIVE certificate expired at or before now.
	ActiveCertificatesExpired(ctx context.Context, now time.Time, limit uint) ([]domain.Domain, error)
	// ExpiredReservations returns RESERVED domains with reserved_until < now.
	ExpiredReservations(ctx context.Context, now time.Time, limit uint) ([]domain.Domain, error)
}
