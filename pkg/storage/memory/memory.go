// Package memory is an in-process implementation of storage.Storage used by
// engine tests and local experiments. Transactions are not isolated from
// concurrent readers; rollback restores the previous records and drops the jobs
// queued inside the transaction.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/riverqueue/river"

	"domainctl/pkg/domain"
	"domainctl/pkg/serrors"
	"domainctl/pkg/storage"
)

var _ storage.Storage = (*Store)(nil)

// Job is a queued job captured by the store.
type Job struct {
	Args river.JobArgs
	Opts *river.InsertOpts
}

// ScheduledAt returns the requested run time, or the zero time.
func (j Job) ScheduledAt() time.Time {
	if j.Opts == nil {
		return time.Time{}
	}

	return j.Opts.ScheduledAt
}

type state struct {
	mu      sync.Mutex
	domains map[domain.ID]domain.Domain
	jobs    []Job
	clock   func() time.Time
}

// Store is the root handle.
type Store struct {
	st *state
}

// New returns an empty store. clock stamps updated rows; nil means time.Now.
func New(clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}

	return &Store{st: &state{domains: map[domain.ID]domain.Domain{}, clock: clock}}
}

// Jobs returns a copy of the queued jobs.
func (s *Store) Jobs() []Job {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	return slices.Clone(s.st.jobs)
}

// TakeJobs returns and removes every queued job.
func (s *Store) TakeJobs() []Job {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	jobs := s.st.jobs
	s.st.jobs = nil

	return jobs
}

// Len returns the number of stored domains.
func (s *Store) Len() int {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	return len(s.st.domains)
}

func (s *Store) Close() error { return nil }

func (s *Store) Begin(context.Context) (storage.TxStorage, error) {
	return &Tx{st: s.st, undo: map[domain.ID]*domain.Domain{}}, nil
}

func (s *Store) WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	return tx.Commit()
}

func (s *Store) AddJob(_ context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	job := Job{Args: args, Opts: opts}
	if s.st.duplicate(job, nil) {
		return false, nil
	}
	s.st.jobs = append(s.st.jobs, job)

	return true, nil
}

func (s *Store) CreateDomain(_ context.Context, d domain.Domain) (*domain.Domain, error) {
	return s.st.create(d, nil)
}

func (s *Store) SaveDomain(_ context.Context, d domain.Domain) (*domain.Domain, error) {
	return s.st.save(d, nil)
}

func (s *Store) DeleteDomain(_ context.Context, id domain.ID, version int64) error {
	return s.st.delete(id, version, nil)
}

func (s *Store) DomainByID(_ context.Context, id domain.ID) (*domain.Domain, error) {
	return s.st.find(func(d *domain.Domain) bool { return d.ID == id }), nil
}

func (s *Store) DomainByHostname(_ context.Context, hostname string) (*domain.Domain, error) {
	return s.st.find(func(d *domain.Domain) bool { return d.Hostname == hostname }), nil
}

func (s *Store) DomainByToken(_ context.Context, token string) (*domain.Domain, error) {
	return s.st.find(func(d *domain.Domain) bool { return d.VerificationToken == token }), nil
}

func (s *Store) OwnerDomains(_ context.Context,
	owner domain.OwnerRef,
	cursor storage.DomainCursor,
	limit uint) (storage.OwnerDomains, error) {
	return s.st.ownerDomains(owner, cursor, limit), nil
}

func (s *Store) DueForVerification(_ context.Context, before time.Time, limit uint) ([]domain.Domain, error) {
	return s.st.sweep(limit, func(d *domain.Domain) time.Time { return d.NextCheckAt }, func(d *domain.Domain) bool {
		return d.AwaitingVerification() && !d.NextCheckAt.After(before)
	}), nil
}

func (s *Store) DueForReconfirmation(_ context.Context, before time.Time, limit uint) ([]domain.Domain, error) {
	return s.st.sweep(limit, func(d *domain.Domain) time.Time { return d.NextReconfirmationDue }, func(d *domain.Domain) bool {
		return d.Status == domain.StatusVerified && !d.NextReconfirmationDue.After(before)
	}), nil
}

func (s *Store) CertificatesExpiring(_ context.Context,
	before, renewAfter time.Time,
	limit uint) ([]domain.Domain, error) {
	return s.st.sweep(limit, func(d *domain.Domain) time.Time { return d.SSLExpiresAt }, func(d *domain.Domain) bool {
		return d.Status == domain.StatusVerified &&
			(d.SSLStatus == domain.SSLStatusActive || d.SSLStatus == domain.SSLStatusExpired) &&
			!d.SSLExpiresAt.After(before) &&
			!d.SSLRenewing &&
			(d.SSLRenewAfter.IsZero() || !d.SSLRenewAfter.After(renewAfter))
	}), nil
}

func (s *Store) CertificatePollsDue(_ context.Context, before time.Time, limit uint) ([]domain.Domain, error) {
	return s.st.sweep(limit, func(d *domain.Domain) time.Time { return d.SSLNextPollAt }, func(d *domain.Domain) bool {
		return d.Status == domain.StatusVerified &&
			!d.SSLNextPollAt.IsZero() && !d.SSLNextPollAt.After(before) &&
			(d.SSLStatus == domain.SSLStatusPending || d.SSLRenewing)
	}), nil
}

func (s *Store) ActiveCertificatesExpired(_ context.Context, now time.Time, limit uint) ([]domain.Domain, error) {
	return s.st.sweep(limit, func(d *domain.Domain) time.Time { return d.SSLExpiresAt }, func(d *domain.Domain) bool {
		return d.SSLStatus == domain.SSLStatusActive && !d.SSLExpiresAt.After(now)
	}), nil
}

func (s *Store) ExpiredReservations(_ context.Context, now time.Time, limit uint) ([]domain.Domain, error) {
	return s.st.sweep(limit, func(d *domain.Domain) time.Time { return d.ReservedUntil }, func(d *domain.Domain) bool {
		return d.Status == domain.StatusReserved && d.ReservedUntil.Before(now)
	}), nil
}

func (st *state) find(match func(d *domain.Domain) bool) *domain.Domain {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, d := range st.domains {
		if match(&d) {
			return clone(d)
		}
	}

	return nil
}

// remember records the pre-image of id for rollback the first time a
// transaction touches it. A nil pre-image means the row did not exist.
func remember(undo map[domain.ID]*domain.Domain, id domain.ID, before *domain.Domain) {
	if undo == nil {
		return
	}
	if _, ok := undo[id]; ok {
		return
	}
	undo[id] = before
}

func (st *state) create(d domain.Domain, undo map[domain.ID]*domain.Domain) (*domain.Domain, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, existing := range st.domains {
		if existing.Hostname == d.Hostname {
			return nil, serrors.Wrap(serrors.ErrConflict, storage.ErrDuplicateHostname, "could not store domain")
		}
		if existing.VerificationToken == d.VerificationToken {
			return nil, serrors.Wrap(serrors.ErrConflict, storage.ErrDuplicateToken, "could not store domain")
		}
	}
	if _, ok := st.domains[d.ID]; ok {
		return nil, serrors.With(serrors.ErrConflict, "domain %s already exists", d.ID)
	}

	d.Version = 1
	if d.CreatedAt.IsZero() {
		d.CreatedAt = st.clock()
	}
	remember(undo, d.ID, nil)
	st.domains[d.ID] = *clone(d)

	return clone(d), nil
}

func (st *state) save(d domain.Domain, undo map[domain.ID]*domain.Domain) (*domain.Domain, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	existing, ok := st.domains[d.ID]
	if !ok || existing.Version != d.Version {
		return nil, serrors.Wrap(serrors.ErrConflict, storage.ErrStaleVersion, "could not save domain %s", d.ID)
	}

	d.Version++
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = st.clock()
	}
	// redirect counters belong to another writer
	d.TotalRedirects = existing.TotalRedirects
	d.LastUsed = existing.LastUsed
	d.CreatedAt = existing.CreatedAt

	remember(undo, d.ID, clone(existing))
	st.domains[d.ID] = *clone(d)

	return clone(d), nil
}

func (st *state) delete(id domain.ID, version int64, undo map[domain.ID]*domain.Domain) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	existing, ok := st.domains[id]
	if !ok || existing.Version != version {
		return serrors.Wrap(serrors.ErrConflict, storage.ErrStaleVersion, "could not delete domain %s", id)
	}

	remember(undo, id, clone(existing))
	delete(st.domains, id)

	return nil
}

func (st *state) ownerDomains(owner domain.OwnerRef, cursor storage.DomainCursor, limit uint) storage.OwnerDomains {
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []domain.Domain
	for _, d := range st.domains {
		if d.Owner != owner {
			continue
		}
		if !cursor.Before(&d) {
			continue
		}
		out = append(out, *clone(d))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return bytes.Compare(out[i].ID[:], out[j].ID[:]) > 0
		}

		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit == 0 {
		limit = 100
	}

	var next *storage.DomainCursor
	if uint(len(out)) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		next = &storage.DomainCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	return storage.OwnerDomains{Domains: out, NextCursor: next}
}

func (st *state) sweep(limit uint, key func(d *domain.Domain) time.Time, match func(d *domain.Domain) bool) []domain.Domain {
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []domain.Domain
	for _, d := range st.domains {
		if d.IsBlacklisted || !match(&d) {
			continue
		}
		out = append(out, *clone(d))
	}

	sort.Slice(out, func(i, j int) bool {
		ki, kj := key(&out[i]), key(&out[j])
		if ki.Equal(kj) {
			return out[i].ID.String() < out[j].ID.String()
		}

		return ki.Before(kj)
	})

	if limit > 0 && uint(len(out)) > limit {
		out = out[:limit]
	}

	return out
}

// duplicate reports whether job is unique and an equal unique job is already
// queued, either in the store or in pending. Callers hold st.mu.
func (st *state) duplicate(job Job, pending []Job) bool {
	if !isUnique(job) {
		return false
	}

	key := jobKey(job)
	for _, queued := range slices.Concat(st.jobs, pending) {
		if isUnique(queued) && jobKey(queued) == key {
			return true
		}
	}

	return false
}

func isUnique(job Job) bool {
	if job.Opts != nil && job.Opts.UniqueOpts.ByArgs {
		return true
	}
	withOpts, ok := job.Args.(river.JobArgsWithInsertOpts)

	return ok && withOpts.InsertOpts().UniqueOpts.ByArgs
}

func jobKey(job Job) string {
	raw, _ := json.Marshal(job.Args)

	return job.Args.Kind() + ":" + string(raw)
}

func clone(d domain.Domain) *domain.Domain {
	d.OwnershipHistory = slices.Clone(d.OwnershipHistory)
	if d.ProviderHandle != nil {
		h := *d.ProviderHandle
		d.ProviderHandle = &h
	}

	return &d
}
