package dtos_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/application/dtos"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

func TestToAssetTypeDTO(t *testing.T) {
	asset := entities.NewAssetType(1, "Gold Coins", entities.CodeGold)
	dto := dtos.ToAssetTypeDTO(asset)

	if dto.ID != 1 || dto.Name != "Gold Coins" || dto.Code != entities.CodeGold {
		t.Errorf("unexpected dto: %+v", dto)
	}
}

func TestToBalanceDTO(t *testing.T) {
	wallet := entities.ReconstructWallet(1, uuid.New(), 1, valueobjects.MustAmount("42.00"), 3, time.Now(), time.Now())
	dto := dtos.ToBalanceDTO(wallet, entities.CodeGold)

	if dto.Balance != "42.00" {
		t.Errorf("expected balance 42.00, got %s", dto.Balance)
	}
	if dto.AssetType != entities.CodeGold {
		t.Errorf("expected asset type %s, got %s", entities.CodeGold, dto.AssetType)
	}
}

func TestToTransactionDTO(t *testing.T) {
	tx, err := entities.NewTransaction("key-1", entities.KindTopUp, uuid.New(), 1, valueobjects.MustAmount("10.00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dto := dtos.ToTransactionDTO(tx, entities.CodeGold)
	if dto.Kind != string(entities.KindTopUp) {
		t.Errorf("expected kind %s, got %s", entities.KindTopUp, dto.Kind)
	}
	if dto.Status != string(entities.StatusPending) {
		t.Errorf("expected status PENDING, got %s", dto.Status)
	}
}
