// Package ports - LockRepository is the store-level handle onto
// PostgreSQL's transaction-scoped advisory locks, which back the Lock
// Coordinator's serialization of idempotency-key re-entry (§4.1, §4.2).
package ports

import "context"

// LockRepository acquires a transaction-scoped advisory lock. The lock is
// released automatically when the enclosing store transaction commits or
// rolls back; callers never release it explicitly.
type LockRepository interface {
	// AcquireAdvisoryLock blocks until the lock identified by key is held
	// by the caller's transaction, or the transaction's lock_timeout
	// elapses (§4.3 step 1).
	AcquireAdvisoryLock(ctx context.Context, key int64) error
}
