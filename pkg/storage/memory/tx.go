package memory

import (
	"context"
	"time"

	"github.com/riverqueue/river"

	"domainctl/pkg/domain"
	"domainctl/pkg/storage"
)

var _ storage.TxStorage = (*Tx)(nil)

// Tx writes through to the store and keeps the pre-images of every touched
// record so Rollback can restore them. Jobs are held back until Commit.
type Tx struct {
	st   *state
	undo map[domain.ID]*domain.Domain
	jobs []Job
	done bool
}

func (t *Tx) Commit() error {
	if t.done {
		return storage.ErrNotInTx
	}
	t.done = true

	t.st.mu.Lock()
	defer t.st.mu.Unlock()

	for _, job := range t.jobs {
		if !t.st.duplicate(job, nil) {
			t.st.jobs = append(t.st.jobs, job)
		}
	}

	return nil
}

func (t *Tx) Rollback() error {
	if t.done {
		return storage.ErrNotInTx
	}
	t.done = true

	t.st.mu.Lock()
	defer t.st.mu.Unlock()

	for id, before := range t.undo {
		if before == nil {
			delete(t.st.domains, id)

			continue
		}
		t.st.domains[id] = *before
	}

	return nil
}

func (t *Tx) AddJob(_ context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	t.st.mu.Lock()
	defer t.st.mu.Unlock()

	job := Job{Args: args, Opts: opts}
	if t.st.duplicate(job, t.jobs) {
		return false, nil
	}
	t.jobs = append(t.jobs, job)

	return true, nil
}

func (t *Tx) CreateDomain(_ context.Context, d domain.Domain) (*domain.Domain, error) {
	return t.st.create(d, t.undo)
}

func (t *Tx) SaveDomain(_ context.Context, d domain.Domain) (*domain.Domain, error) {
	return t.st.save(d, t.undo)
}

func (t *Tx) DeleteDomain(_ context.Context, id domain.ID, version int64) error {
	return t.st.delete(id, version, t.undo)
}

func (t *Tx) root() *Store { return &Store{st: t.st} }

func (t *Tx) DomainByID(ctx context.Context, id domain.ID) (*domain.Domain, error) {
	return t.root().DomainByID(ctx, id)
}

func (t *Tx) DomainByHostname(ctx context.Context, hostname string) (*domain.Domain, error) {
	return t.root().DomainByHostname(ctx, hostname)
}

func (t *Tx) DomainByToken(ctx context.Context, token string) (*domain.Domain, error) {
	return t.root().DomainByToken(ctx, token)
}

func (t *Tx) OwnerDomains(ctx context.Context,
	owner domain.OwnerRef,
	cursor storage.DomainCursor,
	limit uint) (storage.OwnerDomains, error) {
	return t.root().OwnerDomains(ctx, owner, cursor, limit)
}

func (t *Tx) DueForVerification(ctx context.Context, before time.Time, limit uint) ([]domain.Domain, error) {
	return t.root().DueForVerification(ctx, before, limit)
}

func (t *Tx) DueForReconfirmation(ctx context.Context, before time.Time, limit uint) ([]domain.Domain, error) {
	return t.root().DueForReconfirmation(ctx, before, limit)
}

func (t *Tx) CertificatesExpiring(ctx context.Context,
	before, renewAfter time.Time,
	limit uint) ([]domain.Domain, error) {
	return t.root().CertificatesExpiring(ctx, before, renewAfter, limit)
}

func (t *Tx) CertificatePollsDue(ctx context.Context, before time.Time, limit uint) ([]domain.Domain, error) {
	return t.root().CertificatePollsDue(ctx, before, limit)
}

func (t *Tx) ActiveCertificatesExpired(ctx context.Context, now time.Time, limit uint) ([]domain.Domain, error) {
	return t.root().ActiveCertificatesExpired(ctx, now, limit)
}

func (t *Tx) ExpiredReservations(ctx context.Context, now time.Time, limit uint) ([]domain.Domain, error) {
	return t.root().ExpiredReservations(ctx, now, limit)
}
