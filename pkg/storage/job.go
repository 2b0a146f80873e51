package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs. Inside a transaction the job becomes
// visible only when the transaction commits, which is what lets a state change
// and its follow-up work (certificate provisioning, notifications) be atomic.
type JobStorage interface {
	// AddJob enqueues a job. The boolean is false when a unique job with the
	// same arguments already exists and the insert was skipped.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
