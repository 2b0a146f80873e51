package verification

import (
	"context"
	"fmt"

	"domainctl/pkg/dnsresolver"
	"domainctl/pkg/domain"
)

// Probe outcomes, used as metric attributes.
const (
	OutcomeMatched  = "matched"
	OutcomeMismatch = "mismatch"
	OutcomeMissing  = "missing"
	OutcomeError    = "error"
)

// ProbeResult is the outcome of one CNAME check. A resolver error is reported
// like any other failed check; Err only feeds logs and metrics.
type ProbeResult struct {
	Matched bool
	Outcome string
	// Reason is the tenant-facing explanation of a failed check.
	Reason string
	Err    error
}

// Probe resolves the CNAME of d.Hostname and compares it with d.CNAMETarget.
func Probe(ctx context.Context, resolver dnsresolver.Resolver, d *domain.Domain) ProbeResult {
	target, found, err := resolver.LookupCNAME(ctx, d.Hostname)
	switch {
	case err != nil:
		return ProbeResult{
			Outcome: OutcomeError,
			Reason:  fmt.Sprintf("could not resolve %s, retrying later", d.Hostname),
			Err:     err,
		}
	case !found:
		return ProbeResult{
			Outcome: OutcomeMissing,
			Reason:  fmt.Sprintf("no CNAME record found for %s", d.Hostname),
		}
	case !d.CNAMEMatches(target):
		return ProbeResult{
			Outcome: OutcomeMismatch,
			Reason:  fmt.Sprintf("CNAME of %s points to %s instead of %s", d.Hostname, domain.NormalizeFQDN(target), d.CNAMETarget),
		}
	default:
		return ProbeResult{Matched: true, Outcome: OutcomeMatched}
	}
}
