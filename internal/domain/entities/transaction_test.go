package entities_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/domain/entities"
	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

func TestNewTransaction_Success(t *testing.T) {
	tx, err := entities.NewTransaction("key-1", entities.KindTopUp, uuid.New(), 1, valueobjects.MustAmount("50.00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Status() != entities.StatusPending {
		t.Errorf("expected new transaction to start PENDING, got %s", tx.Status())
	}
	if tx.Metadata() == nil {
		t.Error("expected nil metadata to be normalized to an empty map")
	}
}

func TestNewTransaction_RejectsInvalidKind(t *testing.T) {
	_, err := entities.NewTransaction("key-1", entities.TransactionKind("TRANSFER"), uuid.New(), 1, valueobjects.MustAmount("50.00"), nil)
	if err == nil {
		t.Fatal("expected error for invalid kind")
	}
}

func TestNewTransaction_RejectsNonPositiveAmount(t *testing.T) {
	_, err := entities.NewTransaction("key-1", entities.KindTopUp, uuid.New(), 1, valueobjects.Zero, nil)
	if err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestNewTransaction_RejectsEmptyIdempotencyKey(t *testing.T) {
	_, err := entities.NewTransaction("", entities.KindTopUp, uuid.New(), 1, valueobjects.MustAmount("50.00"), nil)
	if err == nil {
		t.Fatal("expected error for empty idempotency key")
	}
}

func TestNewTransaction_RejectsOverlongIdempotencyKey(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err := entities.NewTransaction(string(long), entities.KindTopUp, uuid.New(), 1, valueobjects.MustAmount("50.00"), nil)
	if err == nil {
		t.Fatal("expected error for idempotency key over 255 characters")
	}
}

func TestTransaction_MarkCompleted(t *testing.T) {
	tx, err := entities.NewTransaction("key-1", entities.KindSpend, uuid.New(), 1, valueobjects.MustAmount("20.00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.MarkCompleted(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.IsCompleted() {
		t.Error("expected transaction to be COMPLETED")
	}
	if tx.ProcessedAt() == nil {
		t.Error("expected processedAt to be set on completion")
	}
}

func TestTransaction_MarkCompleted_RejectsNonPending(t *testing.T) {
	tx, err := entities.NewTransaction("key-1", entities.KindSpend, uuid.New(), 1, valueobjects.MustAmount("20.00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.MarkCompleted(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.MarkCompleted(); err == nil {
		t.Fatal("expected error completing an already-completed transaction twice")
	}
}

func TestTransaction_MetadataRoundTrip(t *testing.T) {
	meta := map[string]interface{}{"source": "promo-campaign"}
	tx, err := entities.NewTransaction("key-1", entities.KindBonus, uuid.New(), 1, valueobjects.MustAmount("5.00"), meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := tx.MetadataJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reconstructed, err := entities.ReconstructTransaction(tx.ID(), tx.IdempotencyKey(), tx.Kind(), tx.UserID(), tx.AssetTypeID(), tx.Amount(), tx.Status(), raw, tx.CreatedAt(), tx.ProcessedAt())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reconstructed.Metadata()["source"] != "promo-campaign" {
		t.Errorf("expected metadata to round-trip, got %v", reconstructed.Metadata())
	}
}
