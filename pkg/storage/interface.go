// Package storage defines the persistence contract of the domain engines.
// Backends (PostgreSQL, in-memory) implement it together with transaction
// handling so a state change and the jobs it triggers commit atomically.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// AllStorage is every capability available inside and outside a transaction.
type AllStorage interface {
	DomainStorage
	JobStorage
}

// TxStorage is a storage handle bound to an open transaction.
// It becomes unusable after Commit or Rollback.
type TxStorage interface {
	AllStorage

	Commit() error
	Rollback() error
}

// Storage is the root, non-transactional storage handle.
type Storage interface {
	AllStorage

	// Close releases the underlying resources (e.g. the connection pool).
	Close() error

	// Begin opens a transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx runs cb inside a transaction, committing when cb returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
