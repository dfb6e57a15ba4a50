// Package dtos - mappers convert domain entities to API-facing DTOs.
package dtos

import (
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
)

// ToAssetTypeDTO converts an AssetType entity to its DTO.
func ToAssetTypeDTO(a *entities.AssetType) AssetTypeDTO {
	return AssetTypeDTO{ID: a.ID(), Name: a.Name(), Code: a.Code()}
}

// ToAssetTypeDTOList converts a list of AssetType entities.
func ToAssetTypeDTOList(assets []*entities.AssetType) []AssetTypeDTO {
	result := make([]AssetTypeDTO, len(assets))
	for i, a := range assets {
		result[i] = ToAssetTypeDTO(a)
	}
	return result
}

// ToBalanceDTO converts a Wallet entity and its asset type identifier to a
// BalanceDTO.
func ToBalanceDTO(wallet *entities.Wallet, assetTypeIdentifier string) BalanceDTO {
	return BalanceDTO{
		UserID:    wallet.UserID().String(),
		AssetType: assetTypeIdentifier,
		Balance:   wallet.Balance().String(),
	}
}

// ToTransactionDTO converts a Transaction entity and its asset type
// identifier to a TransactionDTO.
func ToTransactionDTO(tx *entities.Transaction, assetTypeIdentifier string) TransactionDTO {
	return TransactionDTO{
		ID:             tx.ID().String(),
		IdempotencyKey: tx.IdempotencyKey(),
		Kind:           string(tx.Kind()),
		UserID:         tx.UserID().String(),
		AssetType:      assetTypeIdentifier,
		Amount:         tx.Amount().String(),
		Status:         string(tx.Status()),
		Metadata:       tx.Metadata(),
		CreatedAt:      tx.CreatedAt(),
		ProcessedAt:    tx.ProcessedAt(),
	}
}
