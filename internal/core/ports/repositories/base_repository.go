package repositories

import "context"

// UnitOfWork is an atomic set of reads and writes against the store. Either
// Commit succeeds and every write becomes visible at once, or nothing does.
//
// Rollback must be safe to call after Commit (it is then a no-op) so callers
// can defer it unconditionally.
type UnitOfWork interface {
	// Commit makes all writes of the unit durable and releases its locks.
	Commit(ctx context.Context) error

	// Rollback discards all writes of the unit and releases its locks.
	Rollback(ctx context.Context) error
}
