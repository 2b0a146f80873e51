package verification

import (
	"context"
	"time"

	"domainctl/pkg/domain"
)

//go:generate mockgen -package mockverification -source=interface.go -destination=mock/mockverification.go *
type Engine interface {
	// Check runs one DNS verification check for a RESERVED or PENDING domain.
	Check(ctx context.Context, id domain.ID) error
	// Sweep queues a check for every domain due at now and returns how many were queued.
	Sweep(ctx context.Context, now time.Time) (int, error)
}
