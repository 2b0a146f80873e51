package certificate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"domainctl/internal/certificate"
	"domainctl/internal/jobs"
	"domainctl/pkg/certprovider"
	mockcertprovider "domainctl/pkg/certprovider/mock"
	"domainctl/pkg/domain"
	"domainctl/pkg/notifier"
	"domainctl/pkg/serrors"
	"domainctl/pkg/storage/memory"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) //nolint: gochecknoglobals

var (
	primaryHandle  = domain.ProviderHandle{Provider: domain.SSLProviderPrimary, ID: "ch_1"}        //nolint: gochecknoglobals
	fallbackHandle = domain.ProviderHandle{Provider: domain.SSLProviderFallback, ID: "acme:go.acme.com"} //nolint: gochecknoglobals
)

type fixture struct {
	now      time.Time
	st       *memory.Store
	primary  *mockcertprovider.MockProvider
	fallback *mockcertprovider.MockProvider
	engine   certificate.Engine
	id       domain.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{now: t0}
	clock := func() time.Time { return f.now }
	f.st = memory.New(clock)

	f.primary = mockcertprovider.NewMockProvider(ctrl)
	f.primary.EXPECT().Name().Return(domain.SSLProviderPrimary).AnyTimes()
	f.fallback = mockcertprovider.NewMockProvider(ctrl)
	f.fallback.EXPECT().Name().Return(domain.SSLProviderFallback).AnyTimes()

	f.engine = certificate.New(f.st, certprovider.NewChain(f.primary, f.fallback), certificate.Options{
		Policy: domain.DefaultPolicy(),
		Now:    clock,
	})

	d := domain.NewReservation("go.acme.com", "tok", "tok.cname.shortlinks.net",
		domain.UserOwner(uuid.New()), t0, domain.DefaultPolicy())
	_, err := d.Apply(domain.Event{Kind: domain.EventCheckSucceeded}, t0, domain.DefaultPolicy())
	require.NoError(t, err)
	created, err := f.st.CreateDomain(context.Background(), d)
	require.NoError(t, err)
	f.id = created.ID

	return f
}

func (f *fixture) reload(t *testing.T) domain.Domain {
	t.Helper()

	d, err := f.st.DomainByID(context.Background(), f.id)
	require.NoError(t, err)
	require.NotNil(t, d)

	return *d
}

func (f *fixture) poll(t *testing.T) certificate.PollResult {
	t.Helper()

	res, err := f.engine.Poll(context.Background(), f.id)
	require.NoError(t, err)

	return res
}

func (f *fixture) events() []notifier.Event {
	var out []notifier.Event
	for _, j := range f.st.Jobs() {
		if n, ok := j.Args.(jobs.NotifyArgs); ok {
			out = append(out, n.Event)
		}
	}

	return out
}

func (f *fixture) update(t *testing.T, mutate func(d *domain.Domain)) {
	t.Helper()

	d := f.reload(t)
	mutate(&d)
	_, err := f.st.SaveDomain(context.Background(), d)
	require.NoError(t, err)
}

func pending() certprovider.Status { return certprovider.Status{State: certprovider.StatePending} }

func TestEngine_ProvisionAndPollUntilActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.primary.EXPECT().CreateHostname(gomock.Any(), "go.acme.com").Return(primaryHandle, nil)
	require.NoError(t, f.engine.Provision(ctx, f.id))

	d := f.reload(t)
	require.Equal(t, &primaryHandle, d.ProviderHandle)
	require.Equal(t, domain.SSLProviderPrimary, d.SSLProvider)
	require.Equal(t, domain.SSLStatusPending, d.SSLStatus)
	require.Equal(t, t0.Add(10*time.Second), d.SSLNextPollAt)
	// the verification token is never overwritten by the handle
	require.Equal(t, "tok", d.VerificationToken)

	queued := f.st.TakeJobs()
	require.Len(t, queued, 1)
	require.Equal(t, jobs.PollCertificateArgs{DomainID: f.id}, queued[0].Args)
	require.Equal(t, t0.Add(10*time.Second), queued[0].ScheduledAt())

	// an early run waits for the scheduled time without querying
	res := f.poll(t)
	require.Equal(t, certificate.PollResult{Again: true, At: t0.Add(10 * time.Second)}, res)

	gomock.InOrder(
		f.primary.EXPECT().QueryStatus(gomock.Any(), primaryHandle).Return(pending(), nil),
		f.primary.EXPECT().QueryStatus(gomock.Any(), primaryHandle).Return(certprovider.Status{}, errors.New("502")),
		f.primary.EXPECT().QueryStatus(gomock.Any(), primaryHandle).Return(certprovider.Status{State: certprovider.StateActive}, nil),
	)

	for i := 1; i <= 2; i++ {
		f.now = f.now.Add(10 * time.Second)
		res = f.poll(t)
		require.True(t, res.Again)
		require.Equal(t, f.now.Add(10*time.Second), res.At)
		require.Equal(t, i, f.reload(t).SSLPollAttempts)
	}

	f.now = f.now.Add(10 * time.Second)
	res = f.poll(t)
	require.False(t, res.Again)

	d = f.reload(t)
	require.Equal(t, domain.SSLStatusActive, d.SSLStatus)
	require.Equal(t, f.now, d.SSLIssuedAt)
	require.Equal(t, f.now.Add(90*24*time.Hour), d.SSLExpiresAt)
	require.Empty(t, d.SSLError)
	require.Zero(t, d.SSLPollAttempts)
	require.Empty(t, f.events())

	// nothing left to poll
	require.Equal(t, certificate.PollResult{}, f.poll(t))
}

func TestEngine_PollBudgetExhausted(t *testing.T) {
	f := newFixture(t)
	p := domain.DefaultPolicy()

	f.primary.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).Return(primaryHandle, nil)
	require.NoError(t, f.engine.Provision(context.Background(), f.id))
	f.primary.EXPECT().QueryStatus(gomock.Any(), primaryHandle).Return(pending(), nil).Times(p.MaxPolls)

	var res certificate.PollResult
	for range p.MaxPolls {
		f.now = f.now.Add(p.PollInterval)
		res = f.poll(t)
	}
	require.False(t, res.Again)

	d := f.reload(t)
	require.Equal(t, domain.SSLStatusPending, d.SSLStatus)
	require.NotEmpty(t, d.SSLWarning)
	require.Zero(t, d.SSLPollAttempts)
	require.Equal(t, f.now.Add(15*time.Minute), d.SSLNextPollAt)

	// the sweep picks it up again once the recheck is due
	f.st.TakeJobs()
	res2, err := f.engine.Sweep(context.Background(), f.now.Add(15*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, res2.Polls)
}

func TestEngine_ProvisionFallsBackWhenPrimaryRefuses(t *testing.T) {
	f := newFixture(t)

	f.primary.EXPECT().CreateHostname(gomock.Any(), "go.acme.com").
		Return(domain.ProviderHandle{}, serrors.With(serrors.ErrRejected, "hostname not allowed"))
	f.fallback.EXPECT().CreateHostname(gomock.Any(), "go.acme.com").Return(fallbackHandle, nil)
	require.NoError(t, f.engine.Provision(context.Background(), f.id))

	d := f.reload(t)
	require.Equal(t, domain.SSLProviderFallback, d.SSLProvider)
	require.Equal(t, &fallbackHandle, d.ProviderHandle)
}

func TestEngine_ProvisionRejectedEverywhere(t *testing.T) {
	f := newFixture(t)

	f.primary.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).
		Return(domain.ProviderHandle{}, serrors.With(serrors.ErrRejected, "no"))
	f.fallback.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).
		Return(domain.ProviderHandle{}, serrors.With(serrors.ErrRejected, "caa forbids"))
	require.NoError(t, f.engine.Provision(context.Background(), f.id))

	d := f.reload(t)
	require.Equal(t, domain.SSLStatusError, d.SSLStatus)
	require.NotEmpty(t, d.SSLError)
	require.Nil(t, d.ProviderHandle)
	require.Empty(t, f.st.Jobs())
}

func TestEngine_ProvisionDeferredOnTransientFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.primary.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).
		Return(domain.ProviderHandle{}, serrors.With(serrors.ErrUnavailable, "503"))
	f.fallback.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).
		Return(domain.ProviderHandle{}, serrors.With(serrors.ErrRejected, "no"))
	require.NoError(t, f.engine.Provision(ctx, f.id))

	d := f.reload(t)
	require.Equal(t, domain.SSLStatusPending, d.SSLStatus)
	require.NotEmpty(t, d.SSLWarning)
	require.Equal(t, t0.Add(15*time.Minute), d.SSLNextPollAt)

	res, err := f.engine.Sweep(ctx, t0.Add(10*time.Minute))
	require.NoError(t, err)
	require.Equal(t, certificate.SweepResult{}, res)

	res, err = f.engine.Sweep(ctx, t0.Add(15*time.Minute))
	require.NoError(t, err)
	require.Equal(t, certificate.SweepResult{Provision: 1}, res)
	queued := f.st.TakeJobs()
	require.Len(t, queued, 1)
	require.Equal(t, jobs.ProvisionCertificateArgs{DomainID: f.id}, queued[0].Args)
}

func TestEngine_PollErrorFallsBackOnce(t *testing.T) {
	f := newFixture(t)

	f.primary.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).Return(primaryHandle, nil)
	require.NoError(t, f.engine.Provision(context.Background(), f.id))

	f.primary.EXPECT().QueryStatus(gomock.Any(), primaryHandle).
		Return(certprovider.Status{State: certprovider.StateError, Message: "dcv failed"}, nil)
	f.fallback.EXPECT().CreateHostname(gomock.Any(), "go.acme.com").Return(fallbackHandle, nil)
	f.primary.EXPECT().DeleteHostname(gomock.Any(), primaryHandle).Return(nil)

	f.now = t0.Add(10 * time.Second)
	res := f.poll(t)
	require.True(t, res.Again)

	d := f.reload(t)
	require.Equal(t, &fallbackHandle, d.ProviderHandle)
	require.Equal(t, domain.SSLStatusPending, d.SSLStatus)

	// the fallback fails as well and nothing is left to try
	f.fallback.EXPECT().QueryStatus(gomock.Any(), fallbackHandle).
		Return(certprovider.Status{State: certprovider.StateError, Message: "caa record forbids issuance"}, nil)
	f.now = f.now.Add(10 * time.Second)
	res = f.poll(t)
	require.False(t, res.Again)

	d = f.reload(t)
	require.Equal(t, domain.SSLStatusError, d.SSLStatus)
	require.Equal(t, "caa record forbids issuance", d.SSLError)
}

func activate(t *testing.T, f *fixture, issued time.Time) {
	t.Helper()

	f.update(t, func(d *domain.Domain) {
		h := primaryHandle
		d.ProviderHandle = &h
		d.SSLProvider = domain.SSLProviderPrimary
		d.CertificateActive(issued, domain.DefaultPolicy())
	})
}

func TestEngine_RenewalFailureKeepsCertificate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activate(t, f, t0)
	expiresAt := t0.Add(90 * 24 * time.Hour)

	// outside the window nothing happens
	f.now = t0.Add(30 * 24 * time.Hour)
	require.NoError(t, f.engine.Renew(ctx, f.id))

	f.now = t0.Add(61 * 24 * time.Hour)
	f.primary.EXPECT().CreateHostname(gomock.Any(), "go.acme.com").Return(primaryHandle, nil)
	require.NoError(t, f.engine.Renew(ctx, f.id))

	d := f.reload(t)
	require.True(t, d.SSLRenewing)
	require.Equal(t, domain.SSLStatusActive, d.SSLStatus)

	f.primary.EXPECT().QueryStatus(gomock.Any(), primaryHandle).
		Return(certprovider.Status{State: certprovider.StateError, Message: "validation timed out"}, nil)
	f.now = f.now.Add(10 * time.Second)
	require.False(t, f.poll(t).Again)

	d = f.reload(t)
	require.Equal(t, domain.SSLStatusActive, d.SSLStatus)
	require.Equal(t, expiresAt, d.SSLExpiresAt)
	require.False(t, d.SSLRenewing)
	require.Equal(t, "validation timed out", d.SSLError)
	require.Equal(t, f.now.Add(6*time.Hour), d.SSLRenewAfter)

	events := f.events()
	require.Len(t, events, 1)
	require.Equal(t, notifier.SslRenewalFailed, events[0].Type)

	// throttled until the retry interval elapsed
	res, err := f.engine.Sweep(ctx, f.now.Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, res.Renewals)
	res, err = f.engine.Sweep(ctx, f.now.Add(6*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, res.Renewals)
}

func TestEngine_RenewalCreateFailure(t *testing.T) {
	f := newFixture(t)
	activate(t, f, t0)

	f.now = t0.Add(70 * 24 * time.Hour)
	f.primary.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).
		Return(domain.ProviderHandle{}, serrors.With(serrors.ErrUnavailable, "503"))
	require.NoError(t, f.engine.Renew(context.Background(), f.id))

	d := f.reload(t)
	require.Equal(t, domain.SSLStatusActive, d.SSLStatus)
	require.NotEmpty(t, d.SSLError)
	require.Len(t, f.events(), 1)

	// rate limiting is retried by the queue and not recorded
	f.now = d.SSLRenewAfter
	f.primary.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).
		Return(domain.ProviderHandle{}, serrors.With(serrors.ErrRateLimited, "429"))
	err := f.engine.Renew(context.Background(), f.id)
	require.ErrorIs(t, err, serrors.ErrRateLimited)
	require.Len(t, f.events(), 1)
}

func TestEngine_RenewalSucceeds(t *testing.T) {
	f := newFixture(t)
	activate(t, f, t0)

	f.now = t0.Add(65 * 24 * time.Hour)
	f.primary.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).Return(primaryHandle, nil)
	require.NoError(t, f.engine.Renew(context.Background(), f.id))

	f.primary.EXPECT().QueryStatus(gomock.Any(), primaryHandle).
		Return(certprovider.Status{State: certprovider.StateActive}, nil)
	f.now = f.now.Add(10 * time.Second)
	f.poll(t)

	d := f.reload(t)
	require.Equal(t, domain.SSLStatusActive, d.SSLStatus)
	require.Equal(t, f.now.Add(90*24*time.Hour), d.SSLExpiresAt)
	require.False(t, d.SSLRenewing)

	events := f.events()
	require.Len(t, events, 1)
	require.Equal(t, notifier.SslRenewed, events[0].Type)
}

func TestEngine_SweepExpiresAndRenews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activate(t, f, t0)

	expiry := t0.Add(90 * 24 * time.Hour)
	res, err := f.engine.Sweep(ctx, expiry.Add(-time.Second))
	require.NoError(t, err)
	require.Equal(t, certificate.SweepResult{Renewals: 1}, res)
	require.Equal(t, domain.SSLStatusActive, f.reload(t).SSLStatus)
	f.st.TakeJobs()

	res, err = f.engine.Sweep(ctx, expiry)
	require.NoError(t, err)
	require.Equal(t, certificate.SweepResult{Expired: 1, Renewals: 1}, res)
	require.Equal(t, domain.SSLStatusExpired, f.reload(t).SSLStatus)

	queued := f.st.TakeJobs()
	require.Len(t, queued, 1)
	require.Equal(t, jobs.RenewCertificateArgs{DomainID: f.id}, queued[0].Args)
}

func TestEngine_Deprovision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.Deprovision(ctx, f.reload(t)))

	activate(t, f, t0)
	f.primary.EXPECT().DeleteHostname(gomock.Any(), primaryHandle).Return(nil)
	require.NoError(t, f.engine.Deprovision(ctx, f.reload(t)))

	f.primary.EXPECT().DeleteHostname(gomock.Any(), primaryHandle).Return(serrors.With(serrors.ErrNotFound, "gone"))
	require.NoError(t, f.engine.Deprovision(ctx, f.reload(t)))

	f.primary.EXPECT().DeleteHostname(gomock.Any(), primaryHandle).Return(serrors.With(serrors.ErrUnavailable, "503"))
	require.ErrorIs(t, f.engine.Deprovision(ctx, f.reload(t)), serrors.ErrUnavailable)
}

func TestEngine_SkipsBlacklisted(t *testing.T) {
	f := newFixture(t)
	f.update(t, func(d *domain.Domain) { d.Blacklist("abuse") })

	require.NoError(t, f.engine.Provision(context.Background(), f.id))
	require.Nil(t, f.reload(t).ProviderHandle)
}
