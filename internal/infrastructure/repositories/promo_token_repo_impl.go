package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"units-exchange.backend/internal/domain/entities"
	"units-exchange.backend/internal/infrastructure/models"
)

// PromoTokenRepository implements promotional token operations
type PromoTokenRepository struct {
	db *gorm.DB
}

// NewPromoTokenRepository creates a new promo token repository
func NewPromoTokenRepository(db *gorm.DB) *PromoTokenRepository {
	return &PromoTokenRepository{db: db}
}

// Create persists a promo token allocation
func (r *PromoTokenRepository) Create(ctx context.Context, token *entities.PromoToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	m := &models.PromoToken{
		ID:         token.ID,
		UserID:     token.UserID,
		GiftCardID: token.GiftCardID,
		Amount:     token.Amount,
		ExpiresAt:  token.ExpiresAt,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	token.CreatedAt = m.CreatedAt
	return nil
}

// GetByUserID lists promo tokens held by a user
func (r *PromoTokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.PromoToken, error) {
	var ms []models.PromoToken
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var tokens []*entities.PromoToken
	for _, m := range ms {
		tokens = append(tokens, &entities.PromoToken{
			ID:         m.ID,
			UserID:     m.UserID,
			GiftCardID: m.GiftCardID,
			Amount:     m.Amount,
			ExpiresAt:  m.ExpiresAt,
			CreatedAt:  m.CreatedAt,
		})
	}
	return tokens, nil
}
