// Package ports - UnitOfWork bounds a store-level transaction: one
// UnitOfWork.Execute call is one ACID transaction (§4.3). The Ledger
// Engine's entire eleven-step procedure runs inside a single Execute call.
package ports

import "context"

// UnitOfWork runs a function inside one store transaction: commit on nil,
// rollback on error. Repositories called from fn must use the ctx passed
// into fn, not the outer ctx, so they observe the active transaction.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(context.Context) error) error

	// ExecuteWithResult is Execute but also returns a value produced by fn,
	// used when the caller needs the entity the transaction created (e.g.
	// the completed Transaction record).
	ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error)
}

// UnitOfWorkFactory builds UnitOfWork instances at the default isolation
// level. Choosing another level is not part of this interface.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}
