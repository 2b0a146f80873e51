package domain

import (
	"fmt"
	"time"
)

// NeedsCertificate reports whether the certificate engine should provision
// a first certificate for the domain.
func (d *Domain) NeedsCertificate() bool {
	return d.Status == StatusVerified && !d.IsBlacklisted && d.SSLStatus == SSLStatusPending && !d.SSLRenewing
}

// Polling reports whether a provider binding is waiting for a status poll.
func (d *Domain) Polling() bool {
	return d.ProviderHandle != nil && (d.SSLStatus == SSLStatusPending || d.SSLRenewing)
}

// BindingCreated records a provider binding accepted for a first issuance or
// a renewal and schedules the first poll.
func (d *Domain) BindingCreated(handle ProviderHandle, renewal bool, now time.Time, p Policy) {
	d.ProviderHandle = &handle
	d.SSLProvider = handle.Provider
	d.SSLRenewing = renewal
	d.SSLPollAttempts = 0
	d.SSLNextPollAt = now.Add(p.PollInterval)
	d.SSLWarning = ""
	d.UpdatedAt = now
}

// CertificateActive marks the certificate as issued now. The expiry is the new
// certificate's own lifetime from now, also on renewal. It returns true when
// the issuance completed a renewal.
func (d *Domain) CertificateActive(now time.Time, p Policy) bool {
	renewed := d.SSLRenewing
	d.SSLStatus = SSLStatusActive
	d.SSLIssuedAt = now
	d.SSLExpiresAt = now.Add(p.CertificateValidity)
	d.SSLError = ""
	d.SSLWarning = ""
	d.SSLRenewing = false
	d.SSLRenewAfter = time.Time{}
	d.resetPolling()
	d.UpdatedAt = now

	return renewed
}

// CertificateFailed records a terminal provisioning failure.
func (d *Domain) CertificateFailed(msg string, now time.Time) {
	d.SSLStatus = SSLStatusError
	d.SSLError = msg
	d.SSLRenewing = false
	d.resetPolling()
	d.UpdatedAt = now
}

// RenewalFailed records a failed renewal. The live certificate and its status
// are left untouched and the next attempt is throttled.
func (d *Domain) RenewalFailed(msg string, now time.Time, p Policy) {
	d.SSLError = msg
	d.SSLRenewing = false
	d.SSLRenewAfter = now.Add(p.RenewalRetryInterval)
	d.resetPolling()
	d.UpdatedAt = now
}

// ProvisioningDeferred records that no provider accepted the hostname because
// of transient failures. The certificate sweep retries after the recheck interval.
func (d *Domain) ProvisioningDeferred(msg string, now time.Time, p Policy) {
	d.SSLWarning = msg
	d.SSLPollAttempts = 0
	d.SSLNextPollAt = now.Add(p.PendingRecheckInterval)
	d.UpdatedAt = now
}

// CertificateExpired moves a lapsed ACTIVE certificate to EXPIRED and reports
// whether it did so.
func (d *Domain) CertificateExpired(now time.Time) bool {
	if d.SSLStatus != SSLStatusActive || d.SSLExpiresAt.After(now) {
		return false
	}
	d.SSLStatus = SSLStatusExpired
	d.UpdatedAt = now

	return true
}

// PollPending counts a pending status poll. It returns true while the poll
// budget allows another poll after PollInterval. When the budget runs out the
// certificate stays as is, a warning is recorded and the next run is pushed
// to PendingRecheckInterval.
func (d *Domain) PollPending(now time.Time, p Policy) bool {
	d.SSLPollAttempts++
	d.UpdatedAt = now
	if d.SSLPollAttempts < p.MaxPolls {
		d.SSLNextPollAt = now.Add(p.PollInterval)

		return true
	}

	d.SSLWarning = fmt.Sprintf("certificate still pending after %d polls", d.SSLPollAttempts)
	d.SSLPollAttempts = 0
	d.SSLNextPollAt = now.Add(p.PendingRecheckInterval)

	return false
}

// RenewalDue reports whether the certificate is inside the renewal window and
// not throttled by a previous failure.
func (d *Domain) RenewalDue(now time.Time, p Policy) bool {
	if d.IsBlacklisted || d.Status != StatusVerified || d.SSLRenewing {
		return false
	}
	if d.SSLStatus != SSLStatusActive && d.SSLStatus != SSLStatusExpired {
		return false
	}
	if !d.SSLRenewAfter.IsZero() && d.SSLRenewAfter.After(now) {
		return false
	}

	return !d.SSLExpiresAt.After(now.Add(p.RenewalWindow))
}

func (d *Domain) resetPolling() {
	d.SSLPollAttempts = 0
	d.SSLNextPollAt = time.Time{}
}
