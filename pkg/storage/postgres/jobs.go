package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
)

// jobClient returns the insert-only queue client shared by the root handle and
// every transaction opened from it.
func (p *PgSQL) jobClient() (*river.Client[*sql.Tx], error) {
	if p.root != nil {
		return p.root.jobClient()
	}

	p.jobsOnce.Do(func() {
		db, _ := p.DB.(*sql.DB)
		p.jobs, p.jobsErr = river.NewClient(riverdatabasesql.New(db), &river.Config{})
	})
	if p.jobsErr != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", p.jobsErr)
	}

	return p.jobs, nil
}

// AddJob inserts a queue job. Inside a transaction the job shares the
// transaction and only becomes visible to workers on commit.
func (p *PgSQL) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	client, err := p.jobClient()
	if err != nil {
		return false, err
	}

	if tx, ok := p.DB.(*sql.Tx); ok {
		res, err := client.InsertTx(ctx, tx, args, opts)
		if err != nil {
			return false, fmt.Errorf("could not insert %s job in tx: %w", args.Kind(), err)
		}

		return !res.UniqueSkippedAsDuplicate, nil
	}

	res, err := client.Insert(ctx, args, opts)
	if err != nil {
		return false, fmt.Errorf("could not insert %s job: %w", args.Kind(), err)
	}

	return !res.UniqueSkippedAsDuplicate, nil
}
