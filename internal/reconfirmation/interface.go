package reconfirmation

import (
	"context"
	"time"

	"domainctl/pkg/domain"
)

//go:generate mockgen -package mockreconfirmation -source=interface.go -destination=mock/mockreconfirmation.go *
type Scheduler interface {
	// Sweep queues a reconfirmation for every verified domain due at now.
	Sweep(ctx context.Context, now time.Time) (int, error)
	// Reconfirm re-runs the DNS check of a verified domain.
	Reconfirm(ctx context.Context, id domain.ID) error
}
