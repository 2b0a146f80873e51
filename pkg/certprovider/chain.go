package certprovider

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
	"domainctl/pkg/serrors"
)

var (
	// ErrNoProvider is returned when the chain has no provider left to try.
	ErrNoProvider = errors.New("no certificate provider left")
	// ErrUnknownProvider is returned for handles of providers not in the chain.
	ErrUnknownProvider = errors.New("unknown certificate provider")
)

// Chain holds providers in priority order.
type Chain struct {
	providers []Provider
}

// NewChain builds a chain; the first provider has the highest priority.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Provider returns the provider registered under name.
func (c *Chain) Provider(name domain.SSLProvider) (Provider, bool) {
	for _, p := range c.providers {
		if p.Name() == name {
			return p, true
		}
	}

	return nil, false
}

// Create asks each provider ranked below after (all of them when after is
// empty) to bind hostname and returns the first accepted handle. When every
// provider refused, the error carries serrors.ErrRejected; otherwise at least
// one failure was transient and the error carries serrors.ErrUnavailable.
func (c *Chain) Create(ctx context.Context, hostname string, after domain.SSLProvider) (domain.ProviderHandle, error) {
	start := 0
	if after != "" {
		start = len(c.providers)
		for i, p := range c.providers {
			if p.Name() == after {
				start = i + 1

				break
			}
		}
	}

	var errs []error
	rejected := true
	for _, p := range c.providers[start:] {
		handle, err := p.CreateHostname(ctx, hostname)
		if err == nil {
			return handle, nil
		}

		logger.Warn(ctx, "certificate provider did not accept hostname",
			zap.String("provider", string(p.Name())), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if !errors.Is(err, serrors.ErrRejected) {
			rejected = false
		}
	}

	if len(errs) == 0 {
		return domain.ProviderHandle{}, serrors.Wrap(serrors.ErrRejected, ErrNoProvider, "could not bind %s", hostname)
	}

	joined := errors.Join(errs...)
	if rejected {
		return domain.ProviderHandle{}, serrors.Wrap(serrors.ErrRejected, joined, "every provider rejected %s", hostname)
	}

	return domain.ProviderHandle{}, serrors.Wrap(serrors.ErrUnavailable, joined, "no provider accepted %s", hostname)
}

// CreateWith binds hostname with the named provider only.
func (c *Chain) CreateWith(ctx context.Context, name domain.SSLProvider, hostname string) (domain.ProviderHandle, error) {
	p, ok := c.Provider(name)
	if !ok {
		return domain.ProviderHandle{}, serrors.Wrap(serrors.ErrRejected, ErrUnknownProvider, "provider %q", name)
	}

	handle, err := p.CreateHostname(ctx, hostname)
	if err != nil {
		return domain.ProviderHandle{}, fmt.Errorf("could not bind %s with %s: %w", hostname, name, err)
	}

	return handle, nil
}

// Query asks the provider that issued handle for the binding status.
func (c *Chain) Query(ctx context.Context, handle domain.ProviderHandle) (Status, error) {
	p, ok := c.Provider(handle.Provider)
	if !ok {
		return Status{}, fmt.Errorf("provider %q: %w", handle.Provider, ErrUnknownProvider)
	}

	status, err := p.QueryStatus(ctx, handle)
	if err != nil {
		return Status{}, fmt.Errorf("could not query %s: %w", handle.Provider, err)
	}

	return status, nil
}

// Delete removes the binding behind handle.
func (c *Chain) Delete(ctx context.Context, handle domain.ProviderHandle) error {
	p, ok := c.Provider(handle.Provider)
	if !ok {
		return fmt.Errorf("provider %q: %w", handle.Provider, ErrUnknownProvider)
	}

	if err := p.DeleteHostname(ctx, handle); err != nil {
		return fmt.Errorf("could not delete binding at %s: %w", handle.Provider, err)
	}

	return nil
}

// Rejected reports whether err means the hostname was refused for good, as
// opposed to a transient failure worth retrying.
func Rejected(err error) bool {
	return serrors.KindOf(err) == serrors.ErrRejected
}
