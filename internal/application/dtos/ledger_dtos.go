// Package dtos carries data between the HTTP layer and the application
// use cases: commands for write operations, DTOs for read responses.
package dtos

import "time"

// ============================================
// Commands (write operations)
// ============================================

// TopUpCommand requests an issuance of value from the system account into
// a user's wallet (§3.1 TOP_UP).
type TopUpCommand struct {
	UserID         string                 `json:"user_id" validate:"required,uuid"`
	AssetType      string                 `json:"asset_type" validate:"required"`
	Amount         string                 `json:"amount" validate:"required"`
	IdempotencyKey string                 `json:"idempotency_key" validate:"required,max=255"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// BonusCommand requests a promotional issuance of value (§3.1 BONUS). Same
// shape as TopUpCommand; kept distinct because a bonus and a top-up are
// different business events even though the ledger effect is identical.
type BonusCommand struct {
	UserID         string                 `json:"user_id" validate:"required,uuid"`
	AssetType      string                 `json:"asset_type" validate:"required"`
	Amount         string                 `json:"amount" validate:"required"`
	IdempotencyKey string                 `json:"idempotency_key" validate:"required,max=255"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// SpendCommand requests the retirement of value from a user's wallet back
// to the system account (§3.1 SPEND).
type SpendCommand struct {
	UserID         string                 `json:"user_id" validate:"required,uuid"`
	AssetType      string                 `json:"asset_type" validate:"required"`
	Amount         string                 `json:"amount" validate:"required"`
	IdempotencyKey string                 `json:"idempotency_key" validate:"required,max=255"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// ============================================
// Queries (read operations)
// ============================================

// GetBalanceQuery requests the current balance of a user's wallet for an
// asset type (§4.4 getBalance).
type GetBalanceQuery struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	AssetType string `json:"asset_type" validate:"required"`
}

// ListTransactionsQuery requests a page of a user's transaction history
// (§4.4 listTransactions).
type ListTransactionsQuery struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Offset int    `json:"offset" validate:"min=0"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
}

// ============================================
// Response DTOs
// ============================================

// AssetTypeDTO represents a provisioned asset class for the API.
type AssetTypeDTO struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// BalanceDTO represents a wallet's current balance for the API.
type BalanceDTO struct {
	UserID    string `json:"user_id"`
	AssetType string `json:"asset_type"`
	Balance   string `json:"balance"`
}

// TransactionDTO represents a transaction for the API.
type TransactionDTO struct {
	ID             string                 `json:"id"`
	IdempotencyKey string                 `json:"idempotency_key"`
	Kind           string                 `json:"kind"`
	UserID         string                 `json:"user_id"`
	AssetType      string                 `json:"asset_type"`
	Amount         string                 `json:"amount"`
	Status         string                 `json:"status"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	ProcessedAt    *time.Time             `json:"processed_at,omitempty"`
}

// TransactionListDTO is a page of a user's transaction history.
type TransactionListDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	Offset       int              `json:"offset"`
	Limit        int              `json:"limit"`
}

// LedgerOperationResultDTO is returned by TOP_UP/BONUS/SPEND: the completed
// transaction and the wallet's resulting balance.
type LedgerOperationResultDTO struct {
	Transaction TransactionDTO `json:"transaction"`
	Balance     BalanceDTO     `json:"balance"`
}
