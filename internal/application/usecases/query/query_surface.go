// Package query implements the three read-only operations of the Query
// Surface: getAssetType, getBalance, listTransactions (§4.4). None of
// these acquires a lock or participates in the Ledger Engine's store
// transaction; they read committed state directly.
package query

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/application/dtos"
	"github.com/vaultcoin/ledgercore/internal/application/ports"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
	domainErrors "github.com/vaultcoin/ledgercore/internal/domain/errors"
)

// Surface answers getAssetType, getBalance, and listTransactions.
// Staleness from an external cache wrapping these calls (§9) is acceptable
// at this boundary but must never feed back into the Ledger Engine.
type Surface struct {
	assetTypeRepo   ports.AssetTypeRepository
	walletRepo      ports.WalletRepository
	transactionRepo ports.TransactionRepository
}

// NewSurface wires the Query Surface's dependencies.
func NewSurface(assetTypeRepo ports.AssetTypeRepository, walletRepo ports.WalletRepository, transactionRepo ports.TransactionRepository) *Surface {
	return &Surface{
		assetTypeRepo:   assetTypeRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
	}
}

// GetAssetType looks up an asset by its exact-case name or code (§4.4).
func (s *Surface) GetAssetType(ctx context.Context, identifier string) (dtos.AssetTypeDTO, error) {
	asset, err := s.assetTypeRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return dtos.AssetTypeDTO{}, err
	}
	return dtos.ToAssetTypeDTO(asset), nil
}

// GetBalance returns the current balance for (userID, assetIdentifier), or
// zero if no wallet row exists yet — auto-onboarding only ever happens
// inside the Ledger Engine, never here (§4.4).
func (s *Surface) GetBalance(ctx context.Context, query dtos.GetBalanceQuery) (dtos.BalanceDTO, error) {
	userID, err := uuid.Parse(query.UserID)
	if err != nil {
		return dtos.BalanceDTO{}, domainErrors.NewInvalidArgument("user_id", "must be a valid UUID")
	}

	asset, err := s.assetTypeRepo.FindByIdentifier(ctx, query.AssetType)
	if err != nil {
		return dtos.BalanceDTO{}, err
	}

	wallet, err := s.walletRepo.FindByUserAndAsset(ctx, userID, asset.ID())
	if err != nil {
		return dtos.BalanceDTO{}, fmt.Errorf("failed to load wallet: %w", err)
	}
	if wallet == nil {
		wallet = entities.NewWallet(userID, asset.ID())
	}

	return dtos.ToBalanceDTO(wallet, asset.Code()), nil
}

// ListTransactions returns a page of userID's transaction history, most
// recent first (§4.4).
func (s *Surface) ListTransactions(ctx context.Context, query dtos.ListTransactionsQuery) (dtos.TransactionListDTO, error) {
	userID, err := uuid.Parse(query.UserID)
	if err != nil {
		return dtos.TransactionListDTO{}, domainErrors.NewInvalidArgument("user_id", "must be a valid UUID")
	}

	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	txs, err := s.transactionRepo.ListByUser(ctx, userID, limit, query.Offset)
	if err != nil {
		return dtos.TransactionListDTO{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	assetCache := make(map[int32]string)
	result := make([]dtos.TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		code, ok := assetCache[tx.AssetTypeID()]
		if !ok {
			asset, err := s.assetTypeRepo.FindByID(ctx, tx.AssetTypeID())
			if err != nil {
				return dtos.TransactionListDTO{}, fmt.Errorf("failed to resolve asset type %d: %w", tx.AssetTypeID(), err)
			}
			code = asset.Code()
			assetCache[tx.AssetTypeID()] = code
		}
		result = append(result, dtos.ToTransactionDTO(tx, code))
	}

	return dtos.TransactionListDTO{
		Transactions: result,
		Offset:       query.Offset,
		Limit:        limit,
	}, nil
}
