package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
	"units-exchange.backend/internal/infrastructure/models"
)

// OutboxRepository implements the notification outbox
type OutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Create appends an outbox event; called inside the same unit of work as the
// ledger mutation it describes
func (r *OutboxRepository) Create(ctx context.Context, event *entities.OutboxEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = entities.OutboxEventStatusPending
	}
	m := &models.OutboxEvent{
		ID:      event.ID,
		Topic:   event.Topic,
		Payload: event.Payload,
		Status:  string(event.Status),
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	event.CreatedAt = m.CreatedAt
	return nil
}

// GetPending lists undelivered events, oldest first
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*entities.OutboxEvent, error) {
	var ms []models.OutboxEvent
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ?", string(entities.OutboxEventStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var events []*entities.OutboxEvent
	for _, m := range ms {
		events = append(events, &entities.OutboxEvent{
			ID:        m.ID,
			Topic:     m.Topic,
			Payload:   m.Payload,
			Status:    entities.OutboxEventStatus(m.Status),
			Attempts:  m.Attempts,
			CreatedAt: m.CreatedAt,
			SentAt:    m.SentAt,
		})
	}
	return events, nil
}

// MarkSent records successful delivery
func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  string(entities.OutboxEventStatusSent),
			"sent_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkFailed bumps the attempt counter; the event stays pending so the
// dispatcher retries it on the next sweep (at-least-once delivery)
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
