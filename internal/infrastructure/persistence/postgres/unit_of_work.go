// Package postgres - UnitOfWork implementation backed by pgx transactions.
//
// Usage:
//
//	err := uow.Execute(ctx, func(txCtx context.Context) error {
//	    wallet, _ := walletRepo.LockForUpdate(txCtx, userID, assetTypeID)
//	    wallet.Credit(amount)
//	    return walletRepo.Save(txCtx, wallet)
//	    // a non-nil return rolls back
//	})
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultcoin/ledgercore/internal/application/ports"
	domainErrors "github.com/vaultcoin/ledgercore/internal/domain/errors"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)
var _ ports.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

// lockTimeout and statementTimeout bound every store transaction (§4.3 step
// 1): a transaction that cannot acquire its advisory lock or row locks
// within lockTimeout, or that runs past statementTimeout, is aborted by
// Postgres and surfaces as a Transient error.
const (
	lockTimeout      = "5s"
	statementTimeout = "10s"
)

// UnitOfWork implements ports.UnitOfWork with pgx transactions. Default
// isolation is READ COMMITTED; the Lock Coordinator's advisory locks, not
// the isolation level, are what serialize conflicting operations.
type UnitOfWork struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewUnitOfWork creates a UnitOfWork bound to pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{
		pool: pool,
		opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// NewUnitOfWorkWithIsolation creates a UnitOfWork at a non-default
// isolation level.
func NewUnitOfWorkWithIsolation(pool *pgxpool.Pool, isolation pgx.TxIsoLevel) *UnitOfWork {
	return &UnitOfWork{
		pool: pool,
		opts: pgx.TxOptions{IsoLevel: isolation},
	}
}

// Execute runs fn inside a transaction: commit on nil, rollback on error or
// panic (re-panicking after rollback). Repositories called from fn must use
// the context fn receives, not the outer ctx.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	if hasTx(ctx) {
		// Postgres has no true nested transactions; an operation already
		// inside one reuses it rather than opening a savepoint.
		return fn(ctx)
	}

	tx, err := u.pool.BeginTx(ctx, u.opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", lockTimeout)); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to set lock_timeout: %w", err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%s'", statementTimeout)); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to set statement_timeout: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	txCtx := injectTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		// 55P03 lock_timeout, 57014 statement_timeout, 40P01 deadlock, plus
		// serialization failures and connection loss, are Transient.
		var pgErr *pgconn.PgError
		if !domainErrors.IsTransient(err) && errors.As(err, &pgErr) &&
			(pgErr.Code == "55P03" || pgErr.Code == "57014" || pgErr.Code == "40P01" || isRetryableError(pgErr)) {
			return domainErrors.NewTransient("UnitOfWork.Execute", err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ExecuteWithResult is Execute but also returns a value fn produced.
func (u *UnitOfWork) ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	var result interface{}

	err := u.Execute(ctx, func(txCtx context.Context) error {
		var fnErr error
		result, fnErr = fn(txCtx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExecuteWithRetry retries fn on a transient error (serialization failure,
// deadlock, connection loss) up to maxRetries times.
func (u *UnitOfWork) ExecuteWithRetry(ctx context.Context, maxRetries int, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := u.Execute(ctx, fn)
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// UnitOfWorkFactory builds UnitOfWork instances, optionally with a
// non-default isolation level.
type UnitOfWorkFactory struct {
	pool *pgxpool.Pool
}

// NewUnitOfWorkFactory creates a UnitOfWorkFactory bound to pool.
func NewUnitOfWorkFactory(pool *pgxpool.Pool) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{pool: pool}
}

// New creates a UnitOfWork with default settings.
func (f *UnitOfWorkFactory) New() ports.UnitOfWork {
	return NewUnitOfWork(f.pool)
}

// NewWithIsolation creates a UnitOfWork at the given isolation level.
func (f *UnitOfWorkFactory) NewWithIsolation(isolation pgx.TxIsoLevel) *UnitOfWork {
	return NewUnitOfWorkWithIsolation(f.pool, isolation)
}
