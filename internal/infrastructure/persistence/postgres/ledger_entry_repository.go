// Package postgres - LedgerEntryRepository implementation. Entries are
// append-only (§4.3 steps 8-9, I3): never updated, never deleted.
package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultcoin/ledgercore/internal/application/ports"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

var _ ports.LedgerEntryRepository = (*LedgerEntryRepository)(nil)

// LedgerEntryRepository implements ports.LedgerEntryRepository.
type LedgerEntryRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewLedgerEntryRepository creates a LedgerEntryRepository.
func NewLedgerEntryRepository(pool *pgxpool.Pool) *LedgerEntryRepository {
	return &LedgerEntryRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *LedgerEntryRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Insert writes one ledger entry row (§4.3 steps 8-9).
func (r *LedgerEntryRepository) Insert(ctx context.Context, entry *entities.LedgerEntry) error {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Insert("ledger_entries").
		Columns("transaction_id", "wallet_id", "side", "amount", "balance_after", "created_at").
		Values(entry.TransactionID(), entry.WalletID(), string(entry.Side()), entry.Amount().String(),
			entry.BalanceAfter().String(), entry.CreatedAt()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ledger entry insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	return nil
}

// ListByWallet returns every entry for a wallet in chronological order,
// used to reconstruct a balance from the audit trail (I3, P2).
func (r *LedgerEntryRepository) ListByWallet(ctx context.Context, walletID int64) ([]*entities.LedgerEntry, error) {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Select("id", "transaction_id", "wallet_id", "side", "amount", "balance_after", "created_at").
		From("ledger_entries").
		Where(sq.Eq{"wallet_id": walletID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ledger entry list query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var result []*entities.LedgerEntry
	for rows.Next() {
		var (
			id            int64
			transactionID uuid.UUID
			walletIDCol   int64
			sideStr       string
			amount        valueobjects.Amount
			balanceAfter  valueobjects.Amount
			createdAt     time.Time
		)

		if err := rows.Scan(&id, &transactionID, &walletIDCol, &sideStr, &amount, &balanceAfter, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}

		entry := entities.ReconstructLedgerEntry(id, transactionID, walletIDCol,
			entities.LedgerSide(sideStr), amount, balanceAfter, createdAt)
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	return result, nil
}
