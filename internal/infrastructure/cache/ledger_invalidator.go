package cache

import (
	"context"

	"github.com/vaultcoin/ledgercore/internal/application/dtos"
)

// topUpUseCase, bonusUseCase, and spendUseCase mirror the handlers package's
// use-case interfaces so this package doesn't import the HTTP adapter.
type topUpUseCase interface {
	TopUp(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.LedgerOperationResultDTO, error)
}

type bonusUseCase interface {
	Bonus(ctx context.Context, cmd dtos.BonusCommand) (*dtos.LedgerOperationResultDTO, error)
}

type spendUseCase interface {
	Spend(ctx context.Context, cmd dtos.SpendCommand) (*dtos.LedgerOperationResultDTO, error)
}

// LedgerInvalidator decorates the write-side ledger use cases so a
// successful operation evicts the affected balance from QueryCache,
// bounding staleness to the time between the write and the decorator
// returning rather than the full balance TTL.
type LedgerInvalidator struct {
	topUp topUpUseCase
	bonus bonusUseCase
	spend spendUseCase
	cache *QueryCache
}

// NewLedgerInvalidator wraps the three write use cases with cache
// invalidation.
func NewLedgerInvalidator(topUp topUpUseCase, bonus bonusUseCase, spend spendUseCase, cache *QueryCache) *LedgerInvalidator {
	return &LedgerInvalidator{topUp: topUp, bonus: bonus, spend: spend, cache: cache}
}

func (l *LedgerInvalidator) TopUp(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.LedgerOperationResultDTO, error) {
	result, err := l.topUp.TopUp(ctx, cmd)
	l.invalidate(ctx, result, err)
	return result, err
}

func (l *LedgerInvalidator) Bonus(ctx context.Context, cmd dtos.BonusCommand) (*dtos.LedgerOperationResultDTO, error) {
	result, err := l.bonus.Bonus(ctx, cmd)
	l.invalidate(ctx, result, err)
	return result, err
}

func (l *LedgerInvalidator) Spend(ctx context.Context, cmd dtos.SpendCommand) (*dtos.LedgerOperationResultDTO, error) {
	result, err := l.spend.Spend(ctx, cmd)
	l.invalidate(ctx, result, err)
	return result, err
}

func (l *LedgerInvalidator) invalidate(ctx context.Context, result *dtos.LedgerOperationResultDTO, err error) {
	if err != nil || result == nil {
		return
	}
	l.cache.Invalidate(ctx, result.Balance.UserID, result.Balance.AssetType)
}
