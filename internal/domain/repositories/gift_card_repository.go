package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"units-exchange.backend/internal/domain/entities"
)

// GiftCardRepository defines gift card operations.
// TransitionStatus performs a guarded conditional update: the row is only
// changed when its current status matches fromStatus, and the number of rows
// changed is reported so callers can detect a lost race.
type GiftCardRepository interface {
	Create(ctx context.Context, card *entities.GiftCard) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.GiftCard, error)
	GetByToken(ctx context.Context, token string) (*entities.GiftCard, error)
	GetByIssuerID(ctx context.Context, issuerID uuid.UUID) ([]*entities.GiftCard, error)
	GetExpiredSent(ctx context.Context, now time.Time, limit int) ([]*entities.GiftCard, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus entities.GiftCardStatus, redeemedBy *uuid.UUID, redeemedAt *time.Time) (bool, error)
	Stats(ctx context.Context, filter *entities.GiftCardStatsFilter) (*entities.GiftCardStats, error)
}

// PromoTokenRepository defines promotional token operations
type PromoTokenRepository interface {
	Create(ctx context.Context, token *entities.PromoToken) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.PromoToken, error)
}
