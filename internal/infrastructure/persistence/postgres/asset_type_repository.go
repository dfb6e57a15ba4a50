// Package postgres - AssetTypeRepository implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultcoin/ledgercore/internal/application/ports"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
	domainErrors "github.com/vaultcoin/ledgercore/internal/domain/errors"
)

var _ ports.AssetTypeRepository = (*AssetTypeRepository)(nil)

// AssetTypeRepository reads the provisioned, read-only asset_types table.
type AssetTypeRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewAssetTypeRepository creates an AssetTypeRepository.
func NewAssetTypeRepository(pool *pgxpool.Pool) *AssetTypeRepository {
	return &AssetTypeRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *AssetTypeRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// FindByIdentifier looks an asset up by exact-match name or code (§4.4,
// case-sensitive).
func (r *AssetTypeRepository) FindByIdentifier(ctx context.Context, identifier string) (*entities.AssetType, error) {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Select("id", "name", "code").
		From("asset_types").
		Where(sq.Or{
			sq.Eq{"code": identifier},
			sq.Eq{"name": identifier},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build asset type query: %w", err)
	}

	return r.scan(q.QueryRow(ctx, query, args...))
}

// FindByID loads an asset type by its integer identity.
func (r *AssetTypeRepository) FindByID(ctx context.Context, id int32) (*entities.AssetType, error) {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Select("id", "name", "code").
		From("asset_types").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build asset type query: %w", err)
	}

	return r.scan(q.QueryRow(ctx, query, args...))
}

// List returns every provisioned asset type.
func (r *AssetTypeRepository) List(ctx context.Context) ([]*entities.AssetType, error) {
	q := r.getQuerier(ctx)

	query, args, err := r.sb.
		Select("id", "name", "code").
		From("asset_types").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build asset type list query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list asset types: %w", err)
	}
	defer rows.Close()

	var result []*entities.AssetType
	for rows.Next() {
		var (
			id         int32
			name, code string
		)
		if err := rows.Scan(&id, &name, &code); err != nil {
			return nil, fmt.Errorf("failed to scan asset type row: %w", err)
		}
		result = append(result, entities.NewAssetType(id, name, code))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset type rows: %w", err)
	}

	return result, nil
}

func (r *AssetTypeRepository) scan(row pgx.Row) (*entities.AssetType, error) {
	var (
		id         int32
		name, code string
	)

	if err := row.Scan(&id, &name, &code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.NewInvalidArgument("asset_type", "unknown asset type")
		}
		return nil, fmt.Errorf("failed to scan asset type: %w", err)
	}

	return entities.NewAssetType(id, name, code), nil
}
