package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/vaultcoin/ledgercore/internal/application/ports"
)

// PollerConfig configures an out-of-band outbox drain cycle.
type PollerConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// Poller periodically reads unpublished outbox rows and hands them to a
// publisher, marking each one published or failed. It never touches the
// Ledger Engine or the rows' owning store transaction; by the time a row
// is visible here, the transaction that wrote it has already committed.
type Poller struct {
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	logger    *slog.Logger
	config    PollerConfig
}

// NewPoller wires a Poller.
func NewPoller(outbox ports.OutboxRepository, publisher ports.EventPublisher, logger *slog.Logger, config PollerConfig) *Poller {
	if config.Interval <= 0 {
		config.Interval = 2 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	return &Poller{outbox: outbox, publisher: publisher, logger: logger, config: config}
}

// Run drains the outbox every config.Interval until ctx is canceled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.drainOnce(ctx); err != nil {
				p.logger.Error("outbox drain cycle failed", slog.Any("error", err))
			}
		}
	}
}

// drainOnce publishes up to one batch of unpublished events.
func (p *Poller) drainOnce(ctx context.Context) error {
	batch, err := p.outbox.FindUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		return err
	}

	for _, event := range batch {
		if err := p.publisher.Publish(ctx, event); err != nil {
			p.logger.Warn("failed to publish outbox event",
				slog.String("event_id", event.EventID().String()),
				slog.String("event_type", event.EventType()),
				slog.Any("error", err),
			)
			if markErr := p.outbox.MarkFailed(ctx, event.EventID().String(), err.Error()); markErr != nil {
				p.logger.Error("failed to mark outbox event failed",
					slog.String("event_id", event.EventID().String()),
					slog.Any("error", markErr),
				)
			}
			continue
		}

		if err := p.outbox.MarkPublished(ctx, event.EventID().String()); err != nil {
			p.logger.Error("failed to mark outbox event published",
				slog.String("event_id", event.EventID().String()),
				slog.Any("error", err),
			)
		}
	}

	return nil
}
