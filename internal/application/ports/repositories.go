// Package ports defines the interfaces the application layer depends on;
// the infrastructure layer supplies the concrete implementations.
//
// Pattern: Repository Pattern + Ports & Adapters (Hexagonal Architecture).
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/domain/entities"
)

// AssetTypeRepository reads the provisioned, read-only asset catalog.
type AssetTypeRepository interface {
	// FindByIdentifier looks up an asset by exact-match name or code
	// (§4.4, case-sensitive — "gold" does not match "GOLD").
	FindByIdentifier(ctx context.Context, identifier string) (*entities.AssetType, error)

	// FindByID loads an asset by its integer identity.
	FindByID(ctx context.Context, id int32) (*entities.AssetType, error)

	// List returns every provisioned asset type, used to warm the
	// process-wide asset-type cache (§9 Global singletons).
	List(ctx context.Context) ([]*entities.AssetType, error)
}

// WalletRepository is the store-level contract the Ledger Engine drives.
// Every method that participates in a store transaction must be called
// with a context carrying that transaction (see postgres.injectTx).
type WalletRepository interface {
	// EnsureExists inserts a zero-balance wallet for (userID, assetTypeID)
	// if absent, race-safe against a concurrent auto-onboard of the same
	// pair (§4.3 step 4, §9 Auto-onboarding). A no-op if the row already
	// exists.
	EnsureExists(ctx context.Context, userID uuid.UUID, assetTypeID int32) error

	// LockForUpdate acquires an exclusive row lock on the wallet for
	// (userID, assetTypeID) and returns its current state (§4.3 step 5).
	// Callers must invoke this in ascending user_id order across the
	// wallets involved in one operation (§4.1 row-lock ordering).
	LockForUpdate(ctx context.Context, userID uuid.UUID, assetTypeID int32) (*entities.Wallet, error)

	// Save persists a wallet's balance and version after a Credit/Debit
	// mutation (§4.3 steps 8–9). Must be called on a wallet already locked
	// by LockForUpdate within the same store transaction.
	Save(ctx context.Context, wallet *entities.Wallet) error

	// FindByUserAndAsset is a plain, non-locking read for the Query
	// Surface's getBalance operation (§4.4); never used by the engine.
	FindByUserAndAsset(ctx context.Context, userID uuid.UUID, assetTypeID int32) (*entities.Wallet, error)
}

// TransactionRepository is the store-level contract for Transaction rows.
type TransactionRepository interface {
	// FindByIdempotencyKey powers the Idempotency Gate (§4.2). Returns
	// (nil, nil) when no row exists for the key.
	FindByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error)

	// Insert writes a new PENDING Transaction row (§4.3 step 7). The
	// unique constraint on idempotency_key is the second line of defense
	// against a duplicate that raced past the Idempotency Gate (§4.2).
	Insert(ctx context.Context, tx *entities.Transaction) error

	// MarkCompleted transitions a Transaction row's status to COMPLETED
	// and stamps processed_at (§4.3 step 10); no other column is touched
	// (I7).
	MarkCompleted(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)

	// ListByUser powers listTransactions (§4.4): rows for userID ordered
	// by created_at DESC, paginated, joined with the asset code.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, error)
}

// LedgerEntryRepository is the store-level contract for the append-only
// ledger. Entries are created in pairs and never updated or deleted.
type LedgerEntryRepository interface {
	// Insert writes one LedgerEntry row (§4.3 steps 8–9).
	Insert(ctx context.Context, entry *entities.LedgerEntry) error

	// ListByWallet returns every entry for a wallet in chronological
	// order; used to reconstruct a balance from the audit trail (I3, P2).
	ListByWallet(ctx context.Context, walletID int64) ([]*entities.LedgerEntry, error)
}
