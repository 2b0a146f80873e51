// Package dnsresolver defines the DNS lookup used to prove hostname ownership.
package dnsresolver

import "context"

// Resolver looks up the CNAME record of a hostname. found is false when the
// name exists without a CNAME or does not exist at all; err is reserved for
// lookups that could not complete (timeouts, SERVFAIL, network errors).
//
//go:generate mockgen -package mockdnsresolver -source=interface.go -destination=mock/mockdnsresolver.go *
type Resolver interface {
	LookupCNAME(ctx context.Context, hostname string) (target string, found bool, err error)
}

// Func adapts an ordinary function to the Resolver interface.
type Func func(ctx context.Context, hostname string) (string, bool, error)

func (f Func) LookupCNAME(ctx context.Context, hostname string) (string, bool, error) {
	return f(ctx, hostname)
}

// Static resolves from a fixed hostname to target map.
type Static map[string]string

func (s Static) LookupCNAME(_ context.Context, hostname string) (string, bool, error) {
	target, ok := s[hostname]

	return target, ok, nil
}
