// Package postgres - TransactionRepository implementation. Backs the
// Idempotency Gate (§4.2) and the append-only Transaction record (§4.3).
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultcoin/ledgercore/internal/application/ports"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
	domainErrors "github.com/vaultcoin/ledgercore/internal/domain/errors"
	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

var _ ports.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository implements ports.TransactionRepository. The unique
// constraint on idempotency_key is the second line of defense the
// Idempotency Gate relies on (§4.2).
type TransactionRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewTransactionRepository creates a TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TransactionRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// FindByIdempotencyKey powers the Idempotency Gate (§4.2). Returns
// (nil, nil) when no row exists for the key.
func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error) {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Select("id", "idempotency_key", "kind", "user_id", "asset_type_id", "amount",
			"status", "metadata", "created_at", "processed_at").
		From("transactions").
		Where(sq.Eq{"idempotency_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build idempotency key query: %w", err)
	}

	tx, err := r.scan(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tx, nil
}

// Insert writes a new PENDING transaction row (§4.3 step 7).
func (r *TransactionRepository) Insert(ctx context.Context, tx *entities.Transaction) error {
	q := r.getQuerier(ctx)

	metadataJSON, err := tx.MetadataJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query, args, err := r.sb.
		Insert("transactions").
		Columns("id", "idempotency_key", "kind", "user_id", "asset_type_id", "amount",
			"status", "metadata", "created_at").
		Values(tx.ID(), tx.IdempotencyKey(), string(tx.Kind()), tx.UserID(), tx.AssetTypeID(),
			tx.Amount().String(), string(tx.Status()), metadataJSON, tx.CreatedAt()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build transaction insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "idempotency_key") {
			return domainErrors.NewIdempotencyConflict(tx.IdempotencyKey(), "PENDING")
		}
		if isForeignKeyViolation(err) {
			return domainErrors.NewInvalidArgument("asset_type_id", "unknown asset type")
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// MarkCompleted transitions a transaction row to COMPLETED and stamps
// processed_at (§4.3 step 10); no other column is touched (I7).
func (r *TransactionRepository) MarkCompleted(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	q := r.getQuerier(ctx)

	now := time.Now().UTC()
	query, args, err := r.sb.
		Update("transactions").
		Set("status", string(entities.StatusCompleted)).
		Set("processed_at", now).
		Where(sq.Eq{"id": id, "status": string(entities.StatusPending)}).
		Suffix("RETURNING id, idempotency_key, kind, user_id, asset_type_id, amount, status, metadata, created_at, processed_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction completion update: %w", err)
	}

	tx, err := r.scan(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.NewInternal("TransactionRepository.MarkCompleted", fmt.Errorf("transaction %s not found or not PENDING", id))
		}
		return nil, err
	}
	return tx, nil
}

// ListByUser returns rows for userID ordered by created_at DESC, paginated
// (§4.4 listTransactions).
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, error) {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Select("id", "idempotency_key", "kind", "user_id", "asset_type_id", "amount",
			"status", "metadata", "created_at", "processed_at").
		From("transactions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction list query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var result []*entities.Transaction
	for rows.Next() {
		tx, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TransactionRepository) scan(row pgx.Row) (*entities.Transaction, error) {
	return r.scanRow(row)
}

func (r *TransactionRepository) scanRow(row rowScanner) (*entities.Transaction, error) {
	var (
		id             uuid.UUID
		idempotencyKey string
		kindStr        string
		userID         uuid.UUID
		assetTypeID    int32
		amount         valueobjects.Amount
		statusStr      string
		metadataJSON   []byte
		createdAt      time.Time
		processedAt    *time.Time
	)

	err := row.Scan(&id, &idempotencyKey, &kindStr, &userID, &assetTypeID, &amount,
		&statusStr, &metadataJSON, &createdAt, &processedAt)
	if err != nil {
		return nil, err
	}

	tx, err := entities.ReconstructTransaction(id, idempotencyKey, entities.TransactionKind(kindStr),
		userID, assetTypeID, amount, entities.TransactionStatus(statusStr), metadataJSON, createdAt, processedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct transaction: %w", err)
	}

	return tx, nil
}
