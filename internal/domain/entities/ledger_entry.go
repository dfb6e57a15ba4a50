package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

// LedgerSide is which half of a double-entry pair a LedgerEntry records.
type LedgerSide string

const (
	SideDebit  LedgerSide = "DEBIT"
	SideCredit LedgerSide = "CREDIT"
)

// LedgerEntry is one half of the double-entry bookkeeping pair for a
// Transaction: which wallet was affected, on which side, by what amount,
// and what its balance became immediately after (§3). Created in pairs,
// never updated, never deleted (I2, I7 lifecycle).
type LedgerEntry struct {
	id            int64
	transactionID uuid.UUID
	walletID      int64
	side          LedgerSide
	amount        valueobjects.Amount
	balanceAfter  valueobjects.Amount
	createdAt     time.Time
}

// NewLedgerEntry constructs a LedgerEntry ready for insertion. balanceAfter
// must already reflect the wallet mutation applied in the same store
// transaction (§4.3 steps 8–9); it is a snapshot, not derived here.
func NewLedgerEntry(transactionID uuid.UUID, walletID int64, side LedgerSide, amount, balanceAfter valueobjects.Amount) *LedgerEntry {
	return &LedgerEntry{
		transactionID: transactionID,
		walletID:      walletID,
		side:          side,
		amount:        amount,
		balanceAfter:  balanceAfter,
		createdAt:     time.Now(),
	}
}

// ReconstructLedgerEntry hydrates a LedgerEntry from stored data.
func ReconstructLedgerEntry(id int64, transactionID uuid.UUID, walletID int64, side LedgerSide, amount, balanceAfter valueobjects.Amount, createdAt time.Time) *LedgerEntry {
	return &LedgerEntry{
		id:            id,
		transactionID: transactionID,
		walletID:      walletID,
		side:          side,
		amount:        amount,
		balanceAfter:  balanceAfter,
		createdAt:     createdAt,
	}
}

func (e *LedgerEntry) ID() int64                           { return e.id }
func (e *LedgerEntry) TransactionID() uuid.UUID             { return e.transactionID }
func (e *LedgerEntry) WalletID() int64                      { return e.walletID }
func (e *LedgerEntry) Side() LedgerSide                     { return e.side }
func (e *LedgerEntry) Amount() valueobjects.Amount          { return e.amount }
func (e *LedgerEntry) BalanceAfter() valueobjects.Amount    { return e.balanceAfter }
func (e *LedgerEntry) CreatedAt() time.Time                 { return e.createdAt }

// SetID is called once by the repository after insertion assigns the row
// its identity.
func (e *LedgerEntry) SetID(id int64) { e.id = id }

// SignedAmount returns the amount with the sign convention used by I3's
// conservation check: positive for CREDIT, negative for DEBIT.
func (e *LedgerEntry) SignedAmount() valueobjects.Amount {
	if e.side == SideDebit {
		return valueobjects.Zero.Sub(e.amount)
	}
	return e.amount
}
