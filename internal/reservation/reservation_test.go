package reservation_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"domainctl/internal/jobs"
	"domainctl/internal/reservation"
	"domainctl/pkg/domain"
	"domainctl/pkg/serrors"
	"domainctl/pkg/storage/memory"
)

const cnameBase = "cname.shortlinks.net"

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) //nolint: gochecknoglobals

type fakeDeprovisioner struct {
	calls atomic.Int32
	err   error
}

func (f *fakeDeprovisioner) Deprovision(context.Context, domain.Domain) error {
	f.calls.Add(1)

	return f.err
}

func newTestManager(t *testing.T, now *time.Time) (*memory.Store, *fakeDeprovisioner, reservation.Manager) {
	t.Helper()

	clock := func() time.Time { return *now }
	st := memory.New(clock)
	dep := &fakeDeprovisioner{}
	m := reservation.New(st, dep, reservation.Options{
		CNAMEBase: cnameBase,
		Policy:    domain.DefaultPolicy(),
		BatchSize: 2,
		Now:       clock,
	})

	return st, dep, m
}

func TestManager_Reserve(t *testing.T) {
	now := t0
	st, _, m := newTestManager(t, &now)
	owner := domain.UserOwner(uuid.New())

	d, err := m.Reserve(context.Background(), "Links.Acme.com.", owner)
	require.NoError(t, err)
	require.Equal(t, "links.acme.com", d.Hostname)
	require.Equal(t, domain.StatusReserved, d.Status)
	require.Equal(t, t0.Add(15*time.Minute), d.ReservedUntil)
	require.Equal(t, t0, d.NextCheckAt)
	require.Zero(t, d.VerificationAttempts)
	require.Equal(t, domain.SSLStatusPending, d.SSLStatus)
	require.Len(t, d.VerificationToken, 32)
	require.Equal(t, d.VerificationToken+"."+cnameBase, d.CNAMETarget)
	require.Equal(t, []domain.OwnershipEntry{{Owner: owner, At: t0, Reason: "reserved"}}, d.OwnershipHistory)

	queued := st.TakeJobs()
	require.Len(t, queued, 1)
	require.Equal(t, jobs.VerifyDomainArgs{DomainID: d.ID}, queued[0].Args)
}

func TestManager_Reserve_Rejects(t *testing.T) {
	now := t0
	_, _, m := newTestManager(t, &now)
	owner := domain.TeamOwner(uuid.New())
	ctx := context.Background()

	_, err := m.Reserve(ctx, "*.acme.com", owner)
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = m.Reserve(ctx, "go."+cnameBase, owner)
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = m.Reserve(ctx, "links.acme.com", domain.OwnerRef{})
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = m.Reserve(ctx, "links.acme.com", owner)
	require.NoError(t, err)

	_, err = m.Reserve(ctx, "LINKS.acme.com", domain.UserOwner(uuid.New()))
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestManager_Reserve_ConcurrentCollisions(t *testing.T) {
	now := t0
	st, _, m := newTestManager(t, &now)

	const workers = 16
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Reserve(context.Background(), "go.acme.com", domain.UserOwner(uuid.New()))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, serrors.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, succeeded.Load())
	require.EqualValues(t, workers-1, conflicts.Load())
	require.Equal(t, 1, st.Len())
}

func TestManager_ReapExpired(t *testing.T) {
	now := t0
	st, _, m := newTestManager(t, &now)
	ctx := context.Background()
	owner := domain.UserOwner(uuid.New())

	for _, h := range []string{"a.acme.com", "b.acme.com", "c.acme.com"} {
		_, err := m.Reserve(ctx, h, owner)
		require.NoError(t, err)
	}
	now = t0.Add(10 * time.Minute)
	fresh, err := m.Reserve(ctx, "fresh.acme.com", owner)
	require.NoError(t, err)

	// a reservation that already failed a check is PENDING and never reaped
	pending, err := m.Reserve(ctx, "pending.acme.com", owner)
	require.NoError(t, err)
	_, err = pending.Apply(domain.Event{Kind: domain.EventCheckFailed}, now, domain.DefaultPolicy())
	require.NoError(t, err)
	_, err = st.SaveDomain(ctx, *pending)
	require.NoError(t, err)

	n, err := m.ReapExpired(ctx, t0.Add(15*time.Minute))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = m.ReapExpired(ctx, t0.Add(15*time.Minute+time.Second))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 2, st.Len())

	got, err := st.DomainByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestManager_ListSharedCreatedAt(t *testing.T) {
	now := t0
	_, _, m := newTestManager(t, &now)
	ctx := context.Background()
	owner := domain.TeamOwner(uuid.New())

	for _, h := range []string{"a.acme.com", "b.acme.com", "c.acme.com", "d.acme.com", "e.acme.com"} {
		_, err := m.Reserve(ctx, h, owner)
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	var cursor string
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5)
		page, next, err := m.List(ctx, owner, cursor, 2)
		require.NoError(t, err)
		for _, d := range page {
			require.False(t, seen[d.Hostname], d.Hostname)
			seen[d.Hostname] = true
		}
		if next == "" {
			break
		}
		cursor = next
	}
	require.Len(t, seen, 5)
}

func TestManager_GetListDelete(t *testing.T) {
	now := t0
	_, dep, m := newTestManager(t, &now)
	ctx := context.Background()
	owner := domain.UserOwner(uuid.New())
	stranger := domain.UserOwner(uuid.New())

	var ids []domain.ID
	for i, h := range []string{"a.acme.com", "b.acme.com", "c.acme.com"} {
		now = t0.Add(time.Duration(i) * time.Second)
		d, err := m.Reserve(ctx, h, owner)
		require.NoError(t, err)
		ids = append(ids, d.ID)
	}

	_, err := m.Get(ctx, stranger, ids[0])
	require.ErrorIs(t, err, serrors.ErrNotFound)

	page, next, err := m.List(ctx, owner, "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "c.acme.com", page[0].Hostname)
	require.NotEmpty(t, next)

	page, next, err = m.List(ctx, owner, next, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "a.acme.com", page[0].Hostname)
	require.Empty(t, next)

	_, _, err = m.List(ctx, owner, "yesterday", 2)
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	require.ErrorIs(t, m.Delete(ctx, stranger, ids[1]), serrors.ErrNotFound)
	require.NoError(t, m.Delete(ctx, owner, ids[1]))
	require.EqualValues(t, 1, dep.calls.Load())

	_, err = m.Get(ctx, owner, ids[1])
	require.ErrorIs(t, err, serrors.ErrNotFound)

	dep.err = serrors.With(serrors.ErrUnavailable, "provider down")
	require.ErrorIs(t, m.Delete(ctx, owner, ids[0]), serrors.ErrUnavailable)
	_, err = m.Get(ctx, owner, ids[0])
	require.NoError(t, err)
}

func TestManager_Reverify(t *testing.T) {
	now := t0
	st, _, m := newTestManager(t, &now)
	ctx := context.Background()
	owner := domain.UserOwner(uuid.New())

	d, err := m.Reserve(ctx, "links.acme.com", owner)
	require.NoError(t, err)
	st.TakeJobs()

	_, err = m.Reverify(ctx, owner, d.ID)
	require.ErrorIs(t, err, serrors.ErrConflict)

	p := domain.DefaultPolicy()
	_, err = d.Apply(domain.Event{Kind: domain.EventCheckSucceeded}, now, p)
	require.NoError(t, err)
	_, err = d.Apply(domain.Event{Kind: domain.EventReconfirmFailed, Reason: "CNAME removed"}, now, p)
	require.NoError(t, err)
	_, err = st.SaveDomain(ctx, *d)
	require.NoError(t, err)

	now = t0.Add(time.Hour)
	got, err := m.Reverify(ctx, owner, d.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, got.Status)
	require.Zero(t, got.VerificationAttempts)
	require.Equal(t, now, got.NextCheckAt)
	require.Empty(t, got.VerificationError)

	queued := st.TakeJobs()
	require.Len(t, queued, 1)
	require.Equal(t, jobs.VerifyDomainArgs{DomainID: d.ID}, queued[0].Args)
}

func TestManager_Blacklist(t *testing.T) {
	now := t0
	_, _, m := newTestManager(t, &now)
	ctx := context.Background()
	owner := domain.UserOwner(uuid.New())

	_, err := m.Blacklist(ctx, "links.acme.com", "phishing")
	require.ErrorIs(t, err, serrors.ErrNotFound)

	d, err := m.Reserve(ctx, "links.acme.com", owner)
	require.NoError(t, err)

	got, err := m.Blacklist(ctx, "LINKS.acme.com", "phishing")
	require.NoError(t, err)
	require.True(t, got.IsBlacklisted)
	require.Equal(t, "phishing", got.BlacklistReason)

	_, err = m.Reverify(ctx, owner, d.ID)
	require.Error(t, err)
}
