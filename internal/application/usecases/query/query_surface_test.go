package query

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/application/dtos"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
	domainErrors "github.com/vaultcoin/ledgercore/internal/domain/errors"
	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

type mockAssetTypeRepo struct {
	assets map[string]*entities.AssetType
	byID   map[int32]*entities.AssetType
}

func (m *mockAssetTypeRepo) FindByIdentifier(ctx context.Context, identifier string) (*entities.AssetType, error) {
	if a, ok := m.assets[identifier]; ok {
		return a, nil
	}
	return nil, domainErrors.NewInvalidArgument("asset_type", "unknown asset type")
}

func (m *mockAssetTypeRepo) FindByID(ctx context.Context, id int32) (*entities.AssetType, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, domainErrors.NewInvalidArgument("asset_type", "unknown asset type")
}

func (m *mockAssetTypeRepo) List(ctx context.Context) ([]*entities.AssetType, error) {
	var out []*entities.AssetType
	for _, a := range m.byID {
		out = append(out, a)
	}
	return out, nil
}

type mockWalletRepo struct {
	wallet *entities.Wallet
}

func (m *mockWalletRepo) EnsureExists(ctx context.Context, userID uuid.UUID, assetTypeID int32) error {
	return nil
}

func (m *mockWalletRepo) LockForUpdate(ctx context.Context, userID uuid.UUID, assetTypeID int32) (*entities.Wallet, error) {
	return m.wallet, nil
}

func (m *mockWalletRepo) Save(ctx context.Context, wallet *entities.Wallet) error { return nil }

func (m *mockWalletRepo) FindByUserAndAsset(ctx context.Context, userID uuid.UUID, assetTypeID int32) (*entities.Wallet, error) {
	return m.wallet, nil
}

type mockTransactionRepo struct {
	txs []*entities.Transaction
}

func (m *mockTransactionRepo) FindByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionRepo) Insert(ctx context.Context, tx *entities.Transaction) error { return nil }

func (m *mockTransactionRepo) MarkCompleted(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, error) {
	return m.txs, nil
}

func TestSurface_GetAssetType(t *testing.T) {
	gold := entities.NewAssetType(1, "Gold Coins", entities.CodeGold)
	assetRepo := &mockAssetTypeRepo{assets: map[string]*entities.AssetType{entities.CodeGold: gold}}
	surface := NewSurface(assetRepo, &mockWalletRepo{}, &mockTransactionRepo{})

	dto, err := surface.GetAssetType(context.Background(), entities.CodeGold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Code != entities.CodeGold {
		t.Errorf("expected code %s, got %s", entities.CodeGold, dto.Code)
	}
}

func TestSurface_GetBalance_NoWalletYieldsZero(t *testing.T) {
	gold := entities.NewAssetType(1, "Gold Coins", entities.CodeGold)
	assetRepo := &mockAssetTypeRepo{assets: map[string]*entities.AssetType{entities.CodeGold: gold}}
	surface := NewSurface(assetRepo, &mockWalletRepo{wallet: nil}, &mockTransactionRepo{})

	dto, err := surface.GetBalance(context.Background(), dtos.GetBalanceQuery{
		UserID:    uuid.New().String(),
		AssetType: entities.CodeGold,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Balance != "0.00" {
		t.Errorf("expected zero balance for a never-onboarded wallet, got %s", dto.Balance)
	}
}

func TestSurface_GetBalance_ExistingWallet(t *testing.T) {
	userID := uuid.New()
	gold := entities.NewAssetType(1, "Gold Coins", entities.CodeGold)
	assetRepo := &mockAssetTypeRepo{assets: map[string]*entities.AssetType{entities.CodeGold: gold}}
	wallet := entities.ReconstructWallet(1, userID, 1, valueobjects.MustAmount("75.50"), 2, time.Now(), time.Now())
	surface := NewSurface(assetRepo, &mockWalletRepo{wallet: wallet}, &mockTransactionRepo{})

	dto, err := surface.GetBalance(context.Background(), dtos.GetBalanceQuery{
		UserID:    userID.String(),
		AssetType: entities.CodeGold,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Balance != "75.50" {
		t.Errorf("expected balance 75.50, got %s", dto.Balance)
	}
}

func TestSurface_ListTransactions_ResolvesAssetCodes(t *testing.T) {
	userID := uuid.New()
	gold := entities.NewAssetType(1, "Gold Coins", entities.CodeGold)
	assetRepo := &mockAssetTypeRepo{byID: map[int32]*entities.AssetType{1: gold}}

	tx, err := entities.NewTransaction("key-1", entities.KindTopUp, userID, 1, valueobjects.MustAmount("10.00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txRepo := &mockTransactionRepo{txs: []*entities.Transaction{tx}}
	surface := NewSurface(assetRepo, &mockWalletRepo{}, txRepo)

	list, err := surface.ListTransactions(context.Background(), dtos.ListTransactionsQuery{
		UserID: userID.String(),
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Transactions) != 1 || list.Transactions[0].AssetType != entities.CodeGold {
		t.Errorf("expected one transaction with resolved asset code GOLD, got %+v", list.Transactions)
	}
}
