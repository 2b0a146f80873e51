package certificate

import (
	"context"
	"time"

	"domainctl/pkg/domain"
)

// PollResult tells the caller whether the certificate needs another poll.
type PollResult struct {
	// Again is true while the binding is pending inside the poll budget.
	Again bool
	// At is when the next poll is due.
	At time.Time
}

// SweepResult counts what one certificate sweep did.
type SweepResult struct {
	Expired   int
	Renewals  int
	Polls     int
	Provision int
}

//go:generate mockgen -package mockcertificate -source=interface.go -destination=mock/mockcertificate.go *
type Engine interface {
	// Provision creates a certificate binding for a verified domain.
	Provision(ctx context.Context, id domain.ID) error
	// Poll queries the binding status once.
	Poll(ctx context.Context, id domain.ID) (PollResult, error)
	// Renew starts a renewal with the provider that issued the current certificate.
	Renew(ctx context.Context, id domain.ID) error
	// Deprovision deletes the provider binding of d. A missing binding is not an error.
	Deprovision(ctx context.Context, d domain.Domain) error
	// Sweep expires lapsed certificates and queues renewals and due polls.
	Sweep(ctx context.Context, now time.Time) (SweepResult, error)
}
