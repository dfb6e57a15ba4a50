package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/domain/errors"
	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

// TransactionKind classifies the direction and audit category of a value
// movement. TOP_UP and BONUS are flow-identical (system → user); only the
// kind differs, for reporting.
type TransactionKind string

const (
	KindTopUp TransactionKind = "TOP_UP"
	KindBonus TransactionKind = "BONUS"
	KindSpend TransactionKind = "SPEND"
)

func (k TransactionKind) IsValid() bool {
	switch k {
	case KindTopUp, KindBonus, KindSpend:
		return true
	default:
		return false
	}
}

// TransactionStatus is the transaction's lifecycle state. FAILED is part of
// the type but no code path in this repository writes it: it is reserved
// for out-of-band reconciliation tooling (§7, §9 Open Questions).
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Transaction is a single logical value-movement event, uniquely tagged by
// a client-supplied idempotency key (§3). Once written, only its status
// column is ever updated (I7).
type Transaction struct {
	id             uuid.UUID
	idempotencyKey string
	kind           TransactionKind
	userID         uuid.UUID
	assetTypeID    int32
	amount         valueobjects.Amount
	status         TransactionStatus
	metadata       map[string]interface{}
	createdAt      time.Time
	processedAt    *time.Time
}

// NewTransaction constructs a PENDING transaction ready for insertion as
// part of the Ledger Engine's store transaction (§4.3 step 7).
func NewTransaction(idempotencyKey string, kind TransactionKind, userID uuid.UUID, assetTypeID int32, amount valueobjects.Amount, metadata map[string]interface{}) (*Transaction, error) {
	if idempotencyKey == "" || len(idempotencyKey) > 255 {
		return nil, errors.NewInvalidArgument("idempotencyKey", "must be non-empty and at most 255 characters")
	}
	if !kind.IsValid() {
		return nil, errors.NewInvalidArgument("kind", "must be one of TOP_UP, BONUS, SPEND")
	}
	if !amount.IsPositive() {
		return nil, errors.NewInvalidArgument("amount", "must be strictly positive")
	}
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return &Transaction{
		id:             uuid.New(),
		idempotencyKey: idempotencyKey,
		kind:           kind,
		userID:         userID,
		assetTypeID:    assetTypeID,
		amount:         amount,
		status:         StatusPending,
		metadata:       metadata,
		createdAt:      time.Now(),
	}, nil
}

// ReconstructTransaction hydrates a Transaction from stored data.
func ReconstructTransaction(
	id uuid.UUID,
	idempotencyKey string,
	kind TransactionKind,
	userID uuid.UUID,
	assetTypeID int32,
	amount valueobjects.Amount,
	status TransactionStatus,
	metadataJSON []byte,
	createdAt time.Time,
	processedAt *time.Time,
) (*Transaction, error) {
	metadata := map[string]interface{}{}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return nil, errors.NewInternal("ReconstructTransaction", err)
		}
	}
	return &Transaction{
		id:             id,
		idempotencyKey: idempotencyKey,
		kind:           kind,
		userID:         userID,
		assetTypeID:    assetTypeID,
		amount:         amount,
		status:         status,
		metadata:       metadata,
		createdAt:      createdAt,
		processedAt:    processedAt,
	}, nil
}

func (t *Transaction) ID() uuid.UUID                  { return t.id }
func (t *Transaction) IdempotencyKey() string          { return t.idempotencyKey }
func (t *Transaction) Kind() TransactionKind           { return t.kind }
func (t *Transaction) UserID() uuid.UUID               { return t.userID }
func (t *Transaction) AssetTypeID() int32              { return t.assetTypeID }
func (t *Transaction) Amount() valueobjects.Amount     { return t.amount }
func (t *Transaction) Status() TransactionStatus       { return t.status }
func (t *Transaction) Metadata() map[string]interface{} { return t.metadata }
func (t *Transaction) CreatedAt() time.Time            { return t.createdAt }
func (t *Transaction) ProcessedAt() *time.Time         { return t.processedAt }

func (t *Transaction) IsPending() bool   { return t.status == StatusPending }
func (t *Transaction) IsCompleted() bool { return t.status == StatusCompleted }

// MetadataJSON serializes the metadata blob for storage.
func (t *Transaction) MetadataJSON() ([]byte, error) {
	return json.Marshal(t.metadata)
}

// MarkCompleted transitions PENDING → COMPLETED and stamps processedAt
// (§4.3 step 10). It is the only transition this repository ever performs;
// FAILED is never reached from here (§7).
func (t *Transaction) MarkCompleted() error {
	if !t.IsPending() {
		return errors.NewInternal("MarkCompleted", errors.ErrInternal)
	}
	now := time.Now()
	t.status = StatusCompleted
	t.processedAt = &now
	return nil
}
