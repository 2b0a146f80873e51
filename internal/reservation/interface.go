package reservation

import (
	"context"
	"time"

	"domainctl/pkg/domain"
)

//go:generate mockgen -package mockreservation -source=interface.go -destination=mock/mockreservation.go *
type Manager interface {
	Reserve(ctx context.Context, hostname string, owner domain.OwnerRef) (*domain.Domain, error)
	ReapExpired(ctx context.Context, now time.Time) (int, error)

	Get(ctx context.Context, owner domain.OwnerRef, id domain.ID) (*domain.Domain, error)
	List(ctx context.Context, owner domain.OwnerRef, cursor string, limit uint) ([]domain.Domain, string, error)
	Delete(ctx context.Context, owner domain.OwnerRef, id domain.ID) error
	Reverify(ctx context.Context, owner domain.OwnerRef, id domain.ID) (*domain.Domain, error)

	Blacklist(ctx context.Context, hostname, reason string) (*domain.Domain, error)
}

// Deprovisioner removes the certificate binding of a domain before it is deleted.
type Deprovisioner interface {
	Deprovision(ctx context.Context, d domain.Domain) error
}
