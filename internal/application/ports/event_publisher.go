// Package ports - EventPublisher is the ambient event-delivery channel the
// outbox pattern needs a transport for (§11). The Ledger Engine never calls
// a publisher directly; it only appends to the outbox within its own store
// transaction (§4.3 step 11). A separate poller drains the outbox.
package ports

import (
	"context"

	"github.com/vaultcoin/ledgercore/internal/domain/events"
)

// EventPublisher delivers events to an external transport (NATS). At-least-
// once delivery; consumers must be idempotent.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// OutboxRepository implements the Transactional Outbox pattern: in the same
// store transaction as the business operation, append the event; a
// separate poller reads unpublished rows and hands them to an
// EventPublisher, marking them published on success.
type OutboxRepository interface {
	// Save appends an event to the outbox. Must be called inside the same
	// store transaction as the operation that produced it.
	Save(ctx context.Context, event events.DomainEvent) error

	// FindUnpublished returns up to limit events not yet published, locked
	// against concurrent pollers (`FOR UPDATE SKIP LOCKED`).
	FindUnpublished(ctx context.Context, limit int) ([]events.DomainEvent, error)

	// MarkPublished records successful delivery.
	MarkPublished(ctx context.Context, eventID string) error

	// MarkFailed records a delivery failure for later retry.
	MarkFailed(ctx context.Context, eventID string, reason string) error
}
