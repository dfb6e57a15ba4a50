package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultcoin/ledgercore/internal/application/ports"
)

var _ ports.LockRepository = (*LockRepository)(nil)

// LockRepository wraps pg_advisory_xact_lock: lock-first, read-after,
// exactly the pattern the Ledger Engine needs before it checks the
// Idempotency Gate (§4.1, §4.3 step 2).
type LockRepository struct {
	pool *pgxpool.Pool
}

// NewLockRepository creates a LockRepository.
func NewLockRepository(pool *pgxpool.Pool) *LockRepository {
	return &LockRepository{pool: pool}
}

func (r *LockRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// AcquireAdvisoryLock must be called inside the caller's store
// transaction; pg_advisory_xact_lock is released automatically at
// commit or rollback, never explicitly.
func (r *LockRepository) AcquireAdvisoryLock(ctx context.Context, key int64) error {
	q := r.getQuerier(ctx)

	query, _, err := sq.
		Select("pg_advisory_xact_lock(?)").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build advisory lock query: %w", err)
	}

	if _, err := q.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to acquire advisory lock %d: %w", key, err)
	}
	return nil
}
