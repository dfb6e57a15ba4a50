// Package entities contains the ledger's persistent domain types: Wallet,
// Transaction, LedgerEntry, and AssetType.
package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/domain/errors"
	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

// SystemUserID is the all-zeros identifier for the system account: the
// monetary counterparty for every TOP_UP, BONUS, and SPEND.
var SystemUserID = uuid.Nil

// Wallet is a (user, asset) balance record. Exactly one row exists per pair;
// it is created lazily with a zero balance on first reference and never
// destroyed (§3 lifecycle).
type Wallet struct {
	id          int64
	userID      uuid.UUID
	assetTypeID int32
	balance     valueobjects.Amount
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewWallet constructs a zero-balance wallet for a (user, asset) pair. Used
// by the auto-onboarding step of the Ledger Engine (§4.3 step 4); the
// returned Wallet has no id until the repository assigns one.
func NewWallet(userID uuid.UUID, assetTypeID int32) *Wallet {
	now := time.Now()
	return &Wallet{
		userID:      userID,
		assetTypeID: assetTypeID,
		balance:     valueobjects.Zero,
		version:     0,
		createdAt:   now,
		updatedAt:   now,
	}
}

// ReconstructWallet hydrates a Wallet from stored data.
func ReconstructWallet(id int64, userID uuid.UUID, assetTypeID int32, balance valueobjects.Amount, version int64, createdAt, updatedAt time.Time) *Wallet {
	return &Wallet{
		id:          id,
		userID:      userID,
		assetTypeID: assetTypeID,
		balance:     balance,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (w *Wallet) ID() int64                     { return w.id }
func (w *Wallet) UserID() uuid.UUID              { return w.userID }
func (w *Wallet) AssetTypeID() int32             { return w.assetTypeID }
func (w *Wallet) Balance() valueobjects.Amount   { return w.balance }
func (w *Wallet) Version() int64                 { return w.version }
func (w *Wallet) CreatedAt() time.Time           { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time           { return w.updatedAt }

// IsSystem reports whether this wallet belongs to the system account.
func (w *Wallet) IsSystem() bool { return w.userID == SystemUserID }

// SetID is called once by the repository after an auto-onboarding insert
// assigns the row its identity.
func (w *Wallet) SetID(id int64) { w.id = id }

// Credit increases the balance by amount and advances the version counter
// (§4.3 step 9). Always succeeds for a non-negative amount.
func (w *Wallet) Credit(amount valueobjects.Amount) {
	w.balance = w.balance.Add(amount)
	w.version++
	w.updatedAt = time.Now()
}

// Debit decreases the balance by amount, enforcing I1 (never negative). On
// success the version counter advances (§4.3 step 8); on failure the wallet
// is left untouched and the caller must roll back the enclosing store
// transaction (InsufficientFunds, §7).
func (w *Wallet) Debit(amount valueobjects.Amount) error {
	newBalance := w.balance.Sub(amount)
	if newBalance.IsNegative() {
		return errors.NewInsufficientFunds(w.id, w.balance.String(), amount.String())
	}
	w.balance = newBalance
	w.version++
	w.updatedAt = time.Now()
	return nil
}
