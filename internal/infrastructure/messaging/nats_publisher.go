// Package messaging - NATS-backed transport for the transactional outbox
// (§11). The Ledger Engine never imports this package: it only appends to
// the outbox table inside its own store transaction. This publisher is
// driven exclusively by the Poller below, which runs out-of-band.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/vaultcoin/ledgercore/internal/domain/events"
)

// NATSPublisher publishes domain events read from the outbox to NATS
// subjects of the form "<prefix>.<event_type>".
type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewNATSPublisher dials url and returns a publisher, or an error if the
// connection cannot be established within connectTimeout.
func NewNATSPublisher(url, subjectPrefix string, connectTimeout time.Duration) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Timeout(connectTimeout),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return &NATSPublisher{conn: conn, subjectPrefix: subjectPrefix}, nil
}

// rawPayload is implemented by events deserialized from the outbox table,
// which carry their originally stored JSON verbatim instead of the
// concrete event struct (the outbox poller never reconstructs it).
type rawPayload interface {
	Payload() []byte
}

// Publish sends one event to its subject and waits for the server to flush
// the frame, so a slow or down NATS server surfaces as a returned error
// rather than a silently dropped message. The poller marks such an event
// FAILED and does not send it again.
func (p *NATSPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	var payload []byte
	if raw, ok := event.(rawPayload); ok {
		payload = raw.Payload()
	} else {
		var err error
		payload, err = json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", event.EventID(), err)
		}
	}

	subject := p.subjectPrefix + "." + event.EventType()
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	return p.conn.FlushWithContext(ctx)
}

// PublishBatch publishes the events in order, stopping at the first failure
// and returning its error; it does not report how many were sent.
func (p *NATSPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying connection without draining it.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
