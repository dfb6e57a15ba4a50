// Package postgres - WalletRepository implementation with pessimistic
// row locking (§4.1): the Ledger Engine locks wallet rows with
// SELECT ... FOR UPDATE in ascending user_id order rather than relying on
// an optimistic balance_version check.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultcoin/ledgercore/internal/application/ports"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
	domainErrors "github.com/vaultcoin/ledgercore/internal/domain/errors"
	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

var _ ports.WalletRepository = (*WalletRepository)(nil)

// WalletRepository implements ports.WalletRepository. Balances are stored
// as NUMERIC(20,2), round-tripped through valueobjects.Amount's
// driver.Valuer/sql.Scanner.
type WalletRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewWalletRepository creates a WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *WalletRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// EnsureExists inserts a zero-balance wallet for (userID, assetTypeID) if
// absent (§4.3 step 4, §9 Auto-onboarding). ON CONFLICT DO NOTHING makes
// this race-safe against a concurrent auto-onboard of the same pair; both
// callers proceed to LockForUpdate afterward to see a consistent row.
func (r *WalletRepository) EnsureExists(ctx context.Context, userID uuid.UUID, assetTypeID int32) error {
	q := r.getQuerier(ctx)

	now := time.Now().UTC()
	query, args, err := r.sb.
		Insert("wallets").
		Columns("user_id", "asset_type_id", "balance", "version", "created_at", "updated_at").
		Values(userID, assetTypeID, valueobjects.Zero.String(), 0, now, now).
		Suffix("ON CONFLICT (user_id, asset_type_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build wallet insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return domainErrors.NewInvalidArgument("asset_type_id", "unknown asset type")
		}
		return fmt.Errorf("failed to ensure wallet exists: %w", err)
	}

	return nil
}

// LockForUpdate acquires an exclusive row lock on the wallet for (userID,
// assetTypeID) and returns its current state (§4.3 step 5). Callers are
// responsible for invoking this in ascending user_id order across the
// wallets one operation touches (§4.1).
func (r *WalletRepository) LockForUpdate(ctx context.Context, userID uuid.UUID, assetTypeID int32) (*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Select("id", "user_id", "asset_type_id", "balance", "version", "created_at", "updated_at").
		From("wallets").
		Where(sq.Eq{"user_id": userID, "asset_type_id": assetTypeID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build wallet lock query: %w", err)
	}

	return r.scan(q.QueryRow(ctx, query, args...))
}

// Save persists a wallet's balance and version after a Credit/Debit
// mutation (§4.3 steps 8-9). Must be called on a wallet already locked by
// LockForUpdate within the same store transaction.
func (r *WalletRepository) Save(ctx context.Context, wallet *entities.Wallet) error {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Update("wallets").
		Set("balance", wallet.Balance().String()).
		Set("version", wallet.Version()).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": wallet.ID()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build wallet update: %w", err)
	}

	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isCheckViolation(err) {
			return domainErrors.NewInternal("WalletRepository.Save", fmt.Errorf("balance check constraint violated: %w", err))
		}
		return fmt.Errorf("failed to save wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domainErrors.NewInternal("WalletRepository.Save", fmt.Errorf("wallet %d not found", wallet.ID()))
	}

	return nil
}

// FindByUserAndAsset is a plain, non-locking read for the Query Surface's
// getBalance operation (§4.4); never used by the Ledger Engine.
func (r *WalletRepository) FindByUserAndAsset(ctx context.Context, userID uuid.UUID, assetTypeID int32) (*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Select("id", "user_id", "asset_type_id", "balance", "version", "created_at", "updated_at").
		From("wallets").
		Where(sq.Eq{"user_id": userID, "asset_type_id": assetTypeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build wallet query: %w", err)
	}

	return r.scan(q.QueryRow(ctx, query, args...))
}

func (r *WalletRepository) scan(row pgx.Row) (*entities.Wallet, error) {
	var (
		id                   int64
		userID               uuid.UUID
		assetTypeID          int32
		balance              valueobjects.Amount
		version              int64
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &userID, &assetTypeID, &balance, &version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}

	return entities.ReconstructWallet(id, userID, assetTypeID, balance, version, createdAt, updatedAt), nil
}
