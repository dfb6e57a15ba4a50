// Package postgres - OutboxRepository implements the Transactional
// Outbox pattern (§4.3 step 11, §11 nats-io/nats.go):
//  1. The event is saved to the outbox table in the same store transaction
//     as the business operation that produced it.
//  2. A separate poller reads PENDING rows and publishes them to NATS.
//  3. On successful publish the row is marked PUBLISHED.
//
// This is what gives event delivery at-least-once semantics without a
// distributed transaction across Postgres and NATS.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultcoin/ledgercore/internal/application/ports"
	"github.com/vaultcoin/ledgercore/internal/domain/events"
)

var _ ports.OutboxRepository = (*OutboxRepository)(nil)
var _ ports.EventPublisher = (*OutboxRepository)(nil) // appending to the outbox also satisfies EventPublisher

// OutboxRepository implements ports.OutboxRepository.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates an OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Save appends an event to the outbox table. Must run inside the same
// store transaction as the operation that produced it.
func (r *OutboxRepository) Save(ctx context.Context, event events.DomainEvent) error {
	q := r.getQuerier(ctx)

	payload, err := serializeEvent(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	aggregateType := getAggregateType(event.EventType())

	query := `
		INSERT INTO outbox (
			id, aggregate_type, aggregate_id, event_type, event_version,
			payload, status, partition_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = q.Exec(ctx, query,
		event.EventID(),
		aggregateType,
		event.AggregateID(),
		event.EventType(),
		1,
		payload,
		"PENDING",
		event.AggregateID().String(),
		event.OccurredAt(),
	)

	if err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}

	return nil
}

// FindUnpublished returns up to limit PENDING events, selected with FOR
// UPDATE SKIP LOCKED. The row locks last only as long as the enclosing
// transaction; called outside one, they end with the statement, so two
// pollers can still pick up the same row.
func (r *OutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]events.DomainEvent, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find unpublished events: %w", err)
	}
	defer rows.Close()

	var domainEvents []events.DomainEvent
	for rows.Next() {
		var (
			id                       uuid.UUID
			aggregateType, eventType string
			aggregateID              uuid.UUID
			payload                  []byte
			createdAt                time.Time
		)

		if err := rows.Scan(&id, &aggregateType, &aggregateID, &eventType, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}

		event, err := deserializeEvent(eventType, payload, id, aggregateID, createdAt)
		if err != nil {
			// A corrupt row should not block the rest of the batch.
			continue
		}

		domainEvents = append(domainEvents, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox rows: %w", err)
	}

	return domainEvents, nil
}

// Publish is an alias for Save: in the outbox pattern, "publishing" means
// appending to the table inside the caller's transaction. The poller does
// the actual network send.
func (r *OutboxRepository) Publish(ctx context.Context, event events.DomainEvent) error {
	return r.Save(ctx, event)
}

// PublishBatch saves several events in the caller's transaction.
func (r *OutboxRepository) PublishBatch(ctx context.Context, eventsList []events.DomainEvent) error {
	if len(eventsList) == 0 {
		return nil
	}

	for _, event := range eventsList {
		if err := r.Save(ctx, event); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
		}
	}

	return nil
}

// MarkPublished records that the poller delivered an event to NATS.
func (r *OutboxRepository) MarkPublished(ctx context.Context, eventID string) error {
	q := r.getQuerier(ctx)

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}

	query := `
		UPDATE outbox
		SET status = 'PUBLISHED', published_at = $2
		WHERE id = $1 AND status = 'PENDING'
	`

	result, err := q.Exec(ctx, query, eventUUID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark event as published: %w", err)
	}

	if result.RowsAffected() == 0 {
		return errors.New("event not found or already published")
	}

	return nil
}

// MarkFailed records a delivery failure.
func (r *OutboxRepository) MarkFailed(ctx context.Context, eventID string, reason string) error {
	q := r.getQuerier(ctx)

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}

	query := `
		UPDATE outbox
		SET status = 'FAILED',
			failed_at = $2,
			last_error = $3,
			retry_count = retry_count + 1
		WHERE id = $1
	`

	_, err = q.Exec(ctx, query, eventUUID, time.Now(), reason)
	if err != nil {
		return fmt.Errorf("failed to mark event as failed: %w", err)
	}

	return nil
}

// MarkForRetry returns a FAILED event to PENDING, up to 5 attempts.
func (r *OutboxRepository) MarkForRetry(ctx context.Context, eventID string) error {
	q := r.getQuerier(ctx)

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}

	query := `
		UPDATE outbox
		SET status = 'PENDING',
			failed_at = NULL,
			last_error = NULL
		WHERE id = $1 AND status = 'FAILED' AND retry_count < 5
	`

	result, err := q.Exec(ctx, query, eventUUID)
	if err != nil {
		return fmt.Errorf("failed to mark event for retry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return errors.New("event not found, not failed, or max retries exceeded")
	}

	return nil
}

// CleanupPublished deletes PUBLISHED rows older than olderThan.
func (r *OutboxRepository) CleanupPublished(ctx context.Context, olderThan time.Duration) (int64, error) {
	q := r.getQuerier(ctx)

	cutoff := time.Now().Add(-olderThan)

	query := `
		DELETE FROM outbox
		WHERE status = 'PUBLISHED' AND published_at < $1
	`

	result, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup published events: %w", err)
	}

	return result.RowsAffected(), nil
}

func serializeEvent(event events.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// deserializeEvent wraps a stored payload in a genericEvent; the poller
// forwards the raw payload to NATS as-is rather than reconstructing the
// concrete event type.
func deserializeEvent(eventType string, payload []byte, eventID, aggregateID uuid.UUID, occurredAt time.Time) (events.DomainEvent, error) {
	return &genericEvent{
		id:          eventID,
		eventType:   eventType,
		occurredAt:  occurredAt,
		aggregateID: aggregateID,
		payload:     payload,
	}, nil
}

// genericEvent is the shape a row deserializes to when the poller doesn't
// need the concrete event type, only its id/type/payload.
type genericEvent struct {
	id          uuid.UUID
	eventType   string
	occurredAt  time.Time
	aggregateID uuid.UUID
	payload     []byte
}

func (e *genericEvent) EventID() uuid.UUID     { return e.id }
func (e *genericEvent) EventType() string      { return e.eventType }
func (e *genericEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e *genericEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e *genericEvent) Payload() []byte        { return e.payload }

// getAggregateType derives the outbox's aggregate_type column from an
// event type string ("wallet.credited" -> "Wallet").
func getAggregateType(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "wallet"):
		return "Wallet"
	case strings.HasPrefix(eventType, "transaction"):
		return "Transaction"
	default:
		return "Unknown"
	}
}
