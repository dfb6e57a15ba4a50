package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/application/dtos"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
)

func TestFacade_TopUp_ReportsResultingBalance(t *testing.T) {
	engine, walletRepo, _ := newTestEngine()
	assetRepo := &mockAssetTypeRepo{assets: map[string]*entities.AssetType{
		entities.CodeGold: entities.NewAssetType(1, "Gold Coins", entities.CodeGold),
	}}
	facade := NewFacade(engine, walletRepo, assetRepo)
	userID := uuid.New()

	result, err := facade.TopUp(context.Background(), dtos.TopUpCommand{
		UserID:         userID.String(),
		AssetType:      entities.CodeGold,
		Amount:         "30.00",
		IdempotencyKey: "facade-key-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Balance.Balance != "30.00" {
		t.Errorf("expected reported balance 30.00, got %s", result.Balance.Balance)
	}
	if result.Transaction.Status != string(entities.StatusCompleted) {
		t.Errorf("expected COMPLETED status, got %s", result.Transaction.Status)
	}
}
