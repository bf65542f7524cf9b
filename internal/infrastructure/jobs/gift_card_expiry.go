package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"units-exchange.backend/internal/usecases"
	"units-exchange.backend/pkg/logger"
)

type giftCardExpirer interface {
	ExpireOverdue(ctx context.Context, batchSize int) (int, error)
}

// GiftCardExpiryJob voids SENT gift cards whose expiry has passed and refunds
// the escrowed Units to the issuer.
type GiftCardExpiryJob struct {
	giftCardUsecase giftCardExpirer
	interval        time.Duration
	batchSize       int
	stop            chan struct{}
}

func NewGiftCardExpiryJob(giftCardUsecase *usecases.GiftCardUsecase, interval time.Duration, batchSize int) *GiftCardExpiryJob {
	return &GiftCardExpiryJob{
		giftCardUsecase: giftCardUsecase,
		interval:        interval,
		batchSize:       batchSize,
		stop:            make(chan struct{}),
	}
}

func (j *GiftCardExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting gift card expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "gift card expiry job stopped")
			return
		case <-j.stop:
			logger.Info(ctx, "gift card expiry job stopped")
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *GiftCardExpiryJob) Stop() {
	close(j.stop)
}

func (j *GiftCardExpiryJob) run(ctx context.Context) {
	expired, err := j.giftCardUsecase.ExpireOverdue(ctx, j.batchSize)
	if err != nil {
		logger.Error(ctx, "gift card expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		logger.Info(ctx, "expired gift cards", zap.Int("count", expired))
	}
}
