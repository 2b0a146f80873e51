package storage

import "errors"

var (
	// ErrAlreadyInTx is returned by Begin on a handle that is already transactional.
	ErrAlreadyInTx = errors.New("already in tx")
	// ErrNotInTx is returned by Commit and Rollback outside a transaction.
	ErrNotInTx = errors.New("not in tx")

	// ErrDuplicateHostname is wrapped in a serrors.ErrConflict when the hostname is taken.
	ErrDuplicateHostname = errors.New("hostname already registered")
	// ErrDuplicateToken is wrapped in a serrors.ErrConflict when a verification token collides.
	ErrDuplicateToken = errors.New("verification token already in use")
	// ErrStaleVersion is wrapped in a serrors.ErrConflict when a save or delete
	// carries an outdated version or the record no longer exists.
	ErrStaleVersion = errors.New("domain was modified concurrently")
)
