// Package jobs defines the queue job arguments exchanged between the engines,
// which enqueue work, and the workers, which run it.
package jobs

import (
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	"domainctl/pkg/domain"
	"domainctl/pkg/notifier"
)

// Job kinds.
const (
	KindVerifyDomain         = "verify_domain"
	KindReconfirmDomain      = "reconfirm_domain"
	KindProvisionCertificate = "provision_certificate"
	KindPollCertificate      = "poll_certificate"
	KindRenewCertificate     = "renew_certificate"
	KindNotify               = "notify"

	KindReapReservations    = "reap_reservations"
	KindVerificationSweep   = "verification_sweep"
	KindReconfirmationSweep = "reconfirmation_sweep"
	KindCertificateSweep    = "certificate_sweep"
)

const (
	domainJobMaxAttempts = 10
	notifyMaxAttempts    = 25
	sweepMaxAttempts     = 1
)

// inFlight are the states in which a second job with the same unique key is
// rejected. Finalized jobs do not block a new one.
var inFlight = []rivertype.JobState{ //nolint: gochecknoglobals
	rivertype.JobStateAvailable,
	rivertype.JobStatePending,
	rivertype.JobStateRetryable,
	rivertype.JobStateRunning,
	rivertype.JobStateScheduled,
}

// perDomain allows one in-flight job of a kind per domain.
func perDomain() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: domainJobMaxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs:  true,
			ByState: inFlight,
		},
	}
}

// singleton allows one in-flight job of a kind.
func singleton() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: sweepMaxAttempts,
		UniqueOpts:  river.UniqueOpts{ByState: inFlight},
	}
}

// VerifyDomainArgs runs one DNS verification check.
type VerifyDomainArgs struct {
	DomainID domain.ID `json:"domain_id" river:"unique"`
}

func (VerifyDomainArgs) Kind() string                  { return KindVerifyDomain }
func (VerifyDomainArgs) InsertOpts() river.InsertOpts { return perDomain() }

// ReconfirmDomainArgs re-checks ownership of a verified domain.
type ReconfirmDomainArgs struct {
	DomainID domain.ID `json:"domain_id" river:"unique"`
}

func (ReconfirmDomainArgs) Kind() string                  { return KindReconfirmDomain }
func (ReconfirmDomainArgs) InsertOpts() river.InsertOpts { return perDomain() }

// ProvisionCertificateArgs creates a certificate binding for a verified domain.
type ProvisionCertificateArgs struct {
	DomainID domain.ID `json:"domain_id" river:"unique"`
}

func (ProvisionCertificateArgs) Kind() string                  { return KindProvisionCertificate }
func (ProvisionCertificateArgs) InsertOpts() river.InsertOpts { return perDomain() }

// PollCertificateArgs queries the binding status once per run.
type PollCertificateArgs struct {
	DomainID domain.ID `json:"domain_id" river:"unique"`
}

func (PollCertificateArgs) Kind() string                  { return KindPollCertificate }
func (PollCertificateArgs) InsertOpts() river.InsertOpts { return perDomain() }

// RenewCertificateArgs starts a renewal with the issuing provider.
type RenewCertificateArgs struct {
	DomainID domain.ID `json:"domain_id" river:"unique"`
}

func (RenewCertificateArgs) Kind() string                  { return KindRenewCertificate }
func (RenewCertificateArgs) InsertOpts() river.InsertOpts { return perDomain() }

// NotifyArgs delivers one notification. Delivery is retried by the queue.
type NotifyArgs struct {
	Event notifier.Event `json:"event"`
}

func (NotifyArgs) Kind() string { return KindNotify }

func (NotifyArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: notifyMaxAttempts}
}

// ReapReservationsArgs deletes expired reservations.
type ReapReservationsArgs struct{}

func (ReapReservationsArgs) Kind() string                  { return KindReapReservations }
func (ReapReservationsArgs) InsertOpts() river.InsertOpts { return singleton() }

// VerificationSweepArgs enqueues due verification checks.
type VerificationSweepArgs struct{}

func (VerificationSweepArgs) Kind() string                  { return KindVerificationSweep }
func (VerificationSweepArgs) InsertOpts() river.InsertOpts { return singleton() }

// ReconfirmationSweepArgs enqueues due reconfirmations.
type ReconfirmationSweepArgs struct{}

func (ReconfirmationSweepArgs) Kind() string                  { return KindReconfirmationSweep }
func (ReconfirmationSweepArgs) InsertOpts() river.InsertOpts { return singleton() }

// CertificateSweepArgs expires lapsed certificates and enqueues renewals and
// pending certificate work.
type CertificateSweepArgs struct{}

func (CertificateSweepArgs) Kind() string                  { return KindCertificateSweep }
func (CertificateSweepArgs) InsertOpts() river.InsertOpts { return singleton() }

// At schedules a job for t. Options left zero fall back to the job's own.
func At(t time.Time) *river.InsertOpts {
	return &river.InsertOpts{ScheduledAt: t}
}
