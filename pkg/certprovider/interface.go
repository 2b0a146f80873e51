// Package certprovider defines the certificate provider abstraction and the
// prioritized chain the certificate engine walks through.
package certprovider

import (
	"context"
	"time"

	"domainctl/pkg/domain"
)

// State is the issuance state reported by a provider.
type State string

const (
	StatePending State = "pending"
	StateActive  State = "active"
	StateError   State = "error"
)

// Status is the result of a provider status query.
type Status struct {
	State State
	// Message explains an error state.
	Message string
}

// RateLimitStatus describes the upstream rate-limit budget reported by a provider.
type RateLimitStatus struct {
	Limit     int       // Limit is the total number of allowed requests in the current window.
	Remaining int       // Remaining indicates how many requests are left in the current window.
	ResetAt   time.Time // ResetAt is when the rate-limit window resets.
}

// Limiter gates outbound provider calls. Reserve blocks until a request may
// start and Release reports the budget observed in the response.
type Limiter interface {
	Reserve(ctx context.Context) error
	Release(ctx context.Context, status RateLimitStatus)
}

// Provider provisions certificates for custom hostnames.
//
// CreateHostname errors carrying serrors.ErrRejected mean the provider refused
// the hostname for good; any other error is transient.
//
//go:generate mockgen -package mockcertprovider -source=interface.go -destination=mock/mockcertprovider.go *
type Provider interface {
	Name() domain.SSLProvider
	CreateHostname(ctx context.Context, hostname string) (domain.ProviderHandle, error)
	QueryStatus(ctx context.Context, handle domain.ProviderHandle) (Status, error)
	// DeleteHostname removes the binding. A binding that no longer exists is not an error.
	DeleteHostname(ctx context.Context, handle domain.ProviderHandle) error
}
