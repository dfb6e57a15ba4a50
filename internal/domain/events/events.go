// Package events defines the domain events the ledger raises as it
// processes operations. Events are immutable facts appended to the
// transactional outbox in the same store transaction as the state change
// they describe (§4.3 step 11), then delivered at-least-once by a
// separate poller.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

// DomainEvent is the common shape every event implements so the outbox can
// store and replay them without knowing their concrete type.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
}

// BaseEvent carries the fields common to every event.
type BaseEvent struct {
	eventID     uuid.UUID
	eventType   string
	occurredAt  time.Time
	aggregateID uuid.UUID
}

func newBaseEvent(eventType string, aggregateID uuid.UUID) BaseEvent {
	return BaseEvent{
		eventID:     uuid.New(),
		eventType:   eventType,
		occurredAt:  time.Now(),
		aggregateID: aggregateID,
	}
}

func (e BaseEvent) EventID() uuid.UUID      { return e.eventID }
func (e BaseEvent) EventType() string       { return e.eventType }
func (e BaseEvent) OccurredAt() time.Time   { return e.occurredAt }
func (e BaseEvent) AggregateID() uuid.UUID  { return e.aggregateID }

// Event type identifiers, also used as the NATS subject suffix the outbox
// poller publishes under (§11 nats-io/nats.go).
const (
	EventTypeTransactionCompleted = "transaction.completed"
	EventTypeWalletCredited       = "wallet.credited"
	EventTypeWalletDebited        = "wallet.debited"
)

// TransactionCompleted is raised once a transaction reaches COMPLETED
// (§4.3 step 10). Consumers use this to drive notifications, analytics, or
// downstream reconciliation; the Ledger Engine itself never depends on it.
type TransactionCompleted struct {
	BaseEvent
	TransactionID uuid.UUID
	UserID        uuid.UUID
	AssetTypeID   int32
	Kind          string
	Amount        valueobjects.Amount
	CompletedAt   time.Time
}

// NewTransactionCompleted builds a TransactionCompleted event.
func NewTransactionCompleted(transactionID, userID uuid.UUID, assetTypeID int32, kind string, amount valueobjects.Amount, completedAt time.Time) *TransactionCompleted {
	return &TransactionCompleted{
		BaseEvent:     newBaseEvent(EventTypeTransactionCompleted, transactionID),
		TransactionID: transactionID,
		UserID:        userID,
		AssetTypeID:   assetTypeID,
		Kind:          kind,
		Amount:        amount,
		CompletedAt:   completedAt,
	}
}

// WalletCredited is raised for the CREDIT side of a completed transaction.
type WalletCredited struct {
	BaseEvent
	WalletID      int64
	TransactionID uuid.UUID
	Amount        valueobjects.Amount
	BalanceAfter  valueobjects.Amount
}

// NewWalletCredited builds a WalletCredited event.
func NewWalletCredited(walletID int64, transactionID uuid.UUID, amount, balanceAfter valueobjects.Amount) *WalletCredited {
	return &WalletCredited{
		BaseEvent:     newBaseEvent(EventTypeWalletCredited, transactionID),
		WalletID:      walletID,
		TransactionID: transactionID,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
	}
}

// WalletDebited is raised for the DEBIT side of a completed transaction.
type WalletDebited struct {
	BaseEvent
	WalletID      int64
	TransactionID uuid.UUID
	Amount        valueobjects.Amount
	BalanceAfter  valueobjects.Amount
}

// NewWalletDebited builds a WalletDebited event.
func NewWalletDebited(walletID int64, transactionID uuid.UUID, amount, balanceAfter valueobjects.Amount) *WalletDebited {
	return &WalletDebited{
		BaseEvent:     newBaseEvent(EventTypeWalletDebited, transactionID),
		WalletID:      walletID,
		TransactionID: transactionID,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
	}
}

// EventStore collects events raised during one operation so they can be
// appended to the outbox atomically with the operation's state change.
type EventStore struct {
	events []DomainEvent
}

// NewEventStore creates an empty EventStore.
func NewEventStore() *EventStore {
	return &EventStore{events: make([]DomainEvent, 0)}
}

// Add appends an event to the store.
func (s *EventStore) Add(event DomainEvent) {
	s.events = append(s.events, event)
}

// GetAll returns every collected event.
func (s *EventStore) GetAll() []DomainEvent {
	return s.events
}

// Clear empties the store.
func (s *EventStore) Clear() {
	s.events = make([]DomainEvent, 0)
}

// Count returns the number of collected events.
func (s *EventStore) Count() int {
	return len(s.events)
}
