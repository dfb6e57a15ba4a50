package ledger

import (
	"context"
	"fmt"

	"github.com/vaultcoin/ledgercore/internal/application/dtos"
	"github.com/vaultcoin/ledgercore/internal/application/ports"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
)

// Facade adapts the Ledger Engine's entity-returning API to the DTO-shaped
// use case interfaces the HTTP handlers depend on. It never participates
// in the Engine's store transaction; the post-operation balance read is a
// separate, uncontended query (§4.3 step 12 returns the transaction only,
// the balance is read fresh for the response).
type Facade struct {
	engine        *Engine
	walletRepo    ports.WalletRepository
	assetTypeRepo ports.AssetTypeRepository
}

// NewFacade wires a Facade's dependencies.
func NewFacade(engine *Engine, walletRepo ports.WalletRepository, assetTypeRepo ports.AssetTypeRepository) *Facade {
	return &Facade{engine: engine, walletRepo: walletRepo, assetTypeRepo: assetTypeRepo}
}

// TopUp drives the engine and reports the caller's resulting balance.
func (f *Facade) TopUp(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.LedgerOperationResultDTO, error) {
	tx, err := f.engine.TopUp(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return f.toResult(ctx, tx, cmd.AssetType)
}

// Bonus drives the engine and reports the caller's resulting balance.
func (f *Facade) Bonus(ctx context.Context, cmd dtos.BonusCommand) (*dtos.LedgerOperationResultDTO, error) {
	tx, err := f.engine.Bonus(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return f.toResult(ctx, tx, cmd.AssetType)
}

// Spend drives the engine and reports the caller's resulting balance.
func (f *Facade) Spend(ctx context.Context, cmd dtos.SpendCommand) (*dtos.LedgerOperationResultDTO, error) {
	tx, err := f.engine.Spend(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return f.toResult(ctx, tx, cmd.AssetType)
}

func (f *Facade) toResult(ctx context.Context, tx *entities.Transaction, assetIdentifier string) (*dtos.LedgerOperationResultDTO, error) {
	asset, err := f.assetTypeRepo.FindByIdentifier(ctx, assetIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset type for response: %w", err)
	}

	wallet, err := f.walletRepo.FindByUserAndAsset(ctx, tx.UserID(), asset.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load resulting balance: %w", err)
	}

	return &dtos.LedgerOperationResultDTO{
		Transaction: dtos.ToTransactionDTO(tx, asset.Code()),
		Balance:     dtos.ToBalanceDTO(wallet, asset.Code()),
	}, nil
}
