package domain

import "time"

// MaxAttemptsError is recorded once a domain exhausts its fast retry budget.
const MaxAttemptsError = "max attempts reached, hourly retry for 24h"

// Policy holds every timing constant used by the engines.
type Policy struct {
	// ReservationTTL is how long an unverified reservation is held.
	ReservationTTL time.Duration
	// MaxVerificationAttempts is the number of failed checks after which the
	// backoff is replaced with CeilingRetryInterval.
	MaxVerificationAttempts int
	// BackoffBase is the delay after the first failed check; it doubles per failure.
	BackoffBase time.Duration
	// CeilingRetryInterval spaces checks once MaxVerificationAttempts is reached.
	CeilingRetryInterval time.Duration
	// ReconfirmationInterval is how long a verification stays trusted.
	ReconfirmationInterval time.Duration

	// CertificateValidity is the lifetime assumed for a freshly issued certificate.
	CertificateValidity time.Duration
	// RenewalWindow is how long before expiry a renewal starts.
	RenewalWindow time.Duration
	// RenewalRetryInterval throttles renewal attempts after a failure.
	RenewalRetryInterval time.Duration
	// PollInterval spaces certificate status polls.
	PollInterval time.Duration
	// MaxPolls bounds one polling run.
	MaxPolls int
	// PendingRecheckInterval is when an exhausted poll run or a failed
	// provisioning attempt is picked up again by the certificate sweep.
	PendingRecheckInterval time.Duration
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		ReservationTTL:          15 * time.Minute,
		MaxVerificationAttempts: 5,
		BackoffBase:             time.Minute,
		CeilingRetryInterval:    time.Hour,
		ReconfirmationInterval:  365 * 24 * time.Hour,
		CertificateValidity:     90 * 24 * time.Hour,
		RenewalWindow:           30 * 24 * time.Hour,
		RenewalRetryInterval:    6 * time.Hour,
		PollInterval:            10 * time.Second,
		MaxPolls:                12,
		PendingRecheckInterval:  15 * time.Minute,
	}
}

// NextCheckDelay returns the delay before the next check after attempts
// consecutive failures. Reaching the ceiling switches to the fixed retry
// interval without applying the exponential formula for that attempt.
func (p Policy) NextCheckDelay(attempts int) time.Duration {
	if attempts >= p.MaxVerificationAttempts {
		return p.CeilingRetryInterval
	}
	if attempts < 1 {
		return p.BackoffBase
	}

	return p.BackoffBase << (attempts - 1)
}

// CeilingReached reports whether attempts is at or past the fast retry budget.
func (p Policy) CeilingReached(attempts int) bool {
	return attempts >= p.MaxVerificationAttempts
}
