package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"units-exchange.backend/internal/domain/repositories"
	"units-exchange.backend/internal/infrastructure/notifications"
	"units-exchange.backend/pkg/logger"
	"units-exchange.backend/pkg/metrics"
)

// OutboxDispatcher drains pending outbox events and publishes them to the
// notification transport. Delivery is at-least-once: an event is marked sent
// only after a successful publish, and failures are retried on the next tick.
type OutboxDispatcher struct {
	outboxRepo repositories.OutboxRepository
	publisher  notifications.Publisher
	interval   time.Duration
	batchSize  int
	stop       chan struct{}
}

func NewOutboxDispatcher(outboxRepo repositories.OutboxRepository, publisher notifications.Publisher, interval time.Duration, batchSize int) *OutboxDispatcher {
	return &OutboxDispatcher{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		interval:   interval,
		batchSize:  batchSize,
		stop:       make(chan struct{}),
	}
}

func (d *OutboxDispatcher) Start(ctx context.Context) {
	logger.Info(ctx, "starting outbox dispatcher", zap.Duration("interval", d.interval))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "outbox dispatcher stopped")
			return
		case <-d.stop:
			logger.Info(ctx, "outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

func (d *OutboxDispatcher) Stop() {
	close(d.stop)
}

func (d *OutboxDispatcher) drain(ctx context.Context) {
	events, err := d.outboxRepo.GetPending(ctx, d.batchSize)
	if err != nil {
		logger.Error(ctx, "failed to fetch pending outbox events", zap.Error(err))
		return
	}

	for _, event := range events {
		if err := d.publisher.Publish(ctx, event); err != nil {
			logger.Warn(ctx, "outbox publish failed",
				zap.String("event_id", event.ID.String()),
				zap.String("topic", event.Topic),
				zap.Error(err))
			metrics.OutboxDispatched.WithLabelValues("failed").Inc()
			if err := d.outboxRepo.MarkFailed(ctx, event.ID); err != nil {
				logger.Error(ctx, "failed to record outbox failure", zap.Error(err))
			}
			continue
		}

		metrics.OutboxDispatched.WithLabelValues("sent").Inc()
		if err := d.outboxRepo.MarkSent(ctx, event.ID); err != nil {
			// The event stays pending and will be republished; consumers must
			// tolerate duplicates.
			logger.Error(ctx, "failed to mark outbox event sent", zap.Error(err))
		}
	}
}
