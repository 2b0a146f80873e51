package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID uniquely identifies a custom domain record.
type ID uuid.UUID

// String returns the canonical uuid form of the id.
func (id ID) String() string { return uuid.UUID(id).String() }

func (id ID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// ParseID parses the textual form of an ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("could not parse domain id: %w", err)
	}

	return ID(u), nil
}

// Status is the primary lifecycle state of a domain.
type Status string

const (
	// StatusReserved is a time-boxed claim on a hostname before ownership is proven.
	StatusReserved Status = "RESERVED"
	// StatusPending means at least one DNS check failed and retries are scheduled.
	StatusPending Status = "PENDING"
	// StatusVerified means the tenant proved control of the hostname.
	StatusVerified Status = "VERIFIED"
	// StatusError is reached when reconfirmation fails; it requires tenant action.
	StatusError Status = "ERROR"
	// StatusSuspended is set by operators; no engine moves a domain out of it.
	StatusSuspended Status = "SUSPENDED"
)

// SSLStatus is the state of the certificate attached to a domain.
type SSLStatus string

const (
	SSLStatusPending SSLStatus = "PENDING"
	SSLStatusActive  SSLStatus = "ACTIVE"
	SSLStatusError   SSLStatus = "ERROR"
	SSLStatusExpired SSLStatus = "EXPIRED"
)

// SSLProvider names a certificate issuance path.
type SSLProvider string

const (
	// SSLProviderPrimary is the SaaS custom-hostname API.
	SSLProviderPrimary SSLProvider = "PRIMARY_SAAS"
	// SSLProviderFallback is direct ACME issuance.
	SSLProviderFallback SSLProvider = "FALLBACK_ACME"
)

// ProviderHandle references a hostname binding on a certificate provider. It is
// kept apart from the verification token so a re-verification can never clobber
// the certificate binding and vice versa.
type ProviderHandle struct {
	Provider SSLProvider `json:"provider"`
	ID       string      `json:"id"`
}

// Domain is the custom-domain aggregate. Zero time values mean "not set".
type Domain struct {
	// ID is the unique identifier of the domain record.
	ID ID `json:"id"`
	// Version is incremented on every successful save and used for optimistic locking.
	Version int64 `json:"-"`

	// Hostname is the normalized tenant hostname, e.g. links.acme.com.
	Hostname string `json:"hostname"`
	// VerificationToken is the random value embedded in CNAMETarget.
	VerificationToken string `json:"-"`
	// CNAMETarget is the platform endpoint the tenant must point a CNAME at.
	CNAMETarget string `json:"cnameTarget"`

	// Owner is the current owner; OwnershipHistory always ends with it.
	Owner            OwnerRef         `json:"owner"`
	OwnershipHistory []OwnershipEntry `json:"ownershipHistory"`

	Status        Status    `json:"status"`
	ReservedUntil time.Time `json:"reservedUntil"`

	VerificationAttempts    int       `json:"verificationAttempts"`
	LastVerificationAttempt time.Time `json:"lastVerificationAttempt"`
	NextCheckAt             time.Time `json:"nextCheckAt"`
	VerificationError       string    `json:"verificationError,omitempty"`

	NextReconfirmationDue time.Time `json:"nextReconfirmationDue"`

	SSLStatus      SSLStatus       `json:"sslStatus"`
	SSLProvider    SSLProvider     `json:"sslProvider,omitempty"`
	SSLIssuedAt    time.Time       `json:"sslIssuedAt"`
	SSLExpiresAt   time.Time       `json:"sslExpiresAt"`
	SSLError       string          `json:"sslError,omitempty"`
	ProviderHandle *ProviderHandle `json:"-"`

	// SSLPollAttempts counts status polls in the current poll budget.
	SSLPollAttempts int `json:"-"`
	// SSLNextPollAt is when the next status poll (or provisioning retry) is due.
	SSLNextPollAt time.Time `json:"-"`
	// SSLRenewing is true while a renewal binding is being polled.
	SSLRenewing bool `json:"-"`
	// SSLRenewAfter throttles renewal attempts after a failed one.
	SSLRenewAfter time.Time `json:"-"`
	// SSLWarning holds a soft warning such as an exhausted poll budget.
	SSLWarning string `json:"sslWarning,omitempty"`

	IsBlacklisted   bool   `json:"isBlacklisted"`
	BlacklistReason string `json:"blacklistReason,omitempty"`

	// TotalRedirects and LastUsed are maintained by the redirect path and read-only here.
	TotalRedirects int64     `json:"totalRedirects"`
	LastUsed       time.Time `json:"lastUsed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewReservation builds a RESERVED domain for owner. The caller supplies the
// normalized hostname, the token and the CNAME target derived from it.
func NewReservation(hostname, token, cnameTarget string, owner OwnerRef, now time.Time, policy Policy) Domain {
	return Domain{
		ID:                ID(uuid.New()),
		Hostname:          hostname,
		VerificationToken: token,
		CNAMETarget:       cnameTarget,
		Owner:             owner,
		OwnershipHistory: []OwnershipEntry{{
			Owner:  owner,
			At:     now,
			Reason: "reserved",
		}},
		Status:        StatusReserved,
		ReservedUntil: now.Add(policy.ReservationTTL),
		NextCheckAt:   now,
		SSLStatus:     SSLStatusPending,
		CreatedAt:     now,
	}
}

// OwnedBy reports whether owner currently owns the domain.
func (d *Domain) OwnedBy(owner OwnerRef) bool {
	return d.Owner == owner
}

// AwaitingVerification reports whether the verification engine may check the domain.
func (d *Domain) AwaitingVerification() bool {
	return d.Status == StatusReserved || d.Status == StatusPending
}

// Blacklist marks the domain so that no engine transitions it anymore.
func (d *Domain) Blacklist(reason string) {
	d.IsBlacklisted = true
	d.BlacklistReason = reason
}

// CNAMEMatches reports whether target, as returned by a resolver, points at the
// domain's CNAME target. The comparison ignores case and a trailing root dot.
func (d *Domain) CNAMEMatches(target string) bool {
	return NormalizeFQDN(target) == NormalizeFQDN(d.CNAMETarget)
}

// NormalizeFQDN lower-cases name and strips a trailing root dot.
func NormalizeFQDN(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
}
