package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
	"units-exchange.backend/internal/infrastructure/models"
)

// GiftCardRepository implements gift card operations
type GiftCardRepository struct {
	db *gorm.DB
}

// NewGiftCardRepository creates a new gift card repository
func NewGiftCardRepository(db *gorm.DB) *GiftCardRepository {
	return &GiftCardRepository{db: db}
}

// Create persists a new gift card
func (r *GiftCardRepository) Create(ctx context.Context, card *entities.GiftCard) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	m := &models.GiftCard{
		ID:           card.ID,
		IssuerID:     card.IssuerID,
		InvitedName:  card.InvitedName,
		InvitedEmail: card.InvitedEmail,
		UnitsAmount:  card.UnitsAmount,
		Suggestions:  card.Suggestions,
		Token:        card.Token,
		Status:       string(card.Status),
		TemplateRef:  card.TemplateRef,
		ExpiresAt:    card.ExpiresAt,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	card.CreatedAt = m.CreatedAt
	card.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a gift card by ID
func (r *GiftCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.GiftCard, error) {
	var m models.GiftCard
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByToken gets a gift card by its redemption token
func (r *GiftCardRepository) GetByToken(ctx context.Context, token string) (*entities.GiftCard, error) {
	var m models.GiftCard
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByIssuerID lists cards issued by a user, newest first
func (r *GiftCardRepository) GetByIssuerID(ctx context.Context, issuerID uuid.UUID) ([]*entities.GiftCard, error) {
	var ms []models.GiftCard
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("issuer_id = ?", issuerID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var cards []*entities.GiftCard
	for _, m := range ms {
		model := m
		cards = append(cards, r.toEntity(&model))
	}
	return cards, nil
}

// GetExpiredSent lists SENT cards whose deadline has passed
func (r *GiftCardRepository) GetExpiredSent(ctx context.Context, now time.Time, limit int) ([]*entities.GiftCard, error) {
	var ms []models.GiftCard
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ? AND expires_at < ?", string(entities.GiftCardStatusSent), now).
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var cards []*entities.GiftCard
	for _, m := range ms {
		model := m
		cards = append(cards, r.toEntity(&model))
	}
	return cards, nil
}

// TransitionStatus flips the card status only when the current status matches
// fromStatus. Returns false when the guard did not match, which means another
// transition won the race.
func (r *GiftCardRepository) TransitionStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus entities.GiftCardStatus, redeemedBy *uuid.UUID, redeemedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     string(toStatus),
		"updated_at": time.Now(),
	}
	if redeemedBy != nil {
		updates["redeemed_by_id"] = *redeemedBy
	}
	if redeemedAt != nil {
		updates["redeemed_at"] = *redeemedAt
	}

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.GiftCard{}).
		Where("id = ? AND status = ?", id, string(fromStatus)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Stats aggregates issued/redeemed/cancelled/expired counts, total units
// distributed and the redemption conversion rate
func (r *GiftCardRepository) Stats(ctx context.Context, filter *entities.GiftCardStatsFilter) (*entities.GiftCardStats, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.GiftCard{})
	if filter != nil {
		if filter.IssuerID != nil {
			db = db.Where("issuer_id = ?", *filter.IssuerID)
		}
		if filter.Since != nil {
			db = db.Where("created_at >= ?", *filter.Since)
		}
	}

	type row struct {
		Status string
		Count  int64
		Total  sql.NullString
	}
	var rows []row
	if err := db.Select("status, COUNT(*) as count, CAST(SUM(units_amount) AS TEXT) as total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &entities.GiftCardStats{TotalDistributed: decimal.Zero}
	var total int64
	for _, rw := range rows {
		total += rw.Count
		switch entities.GiftCardStatus(rw.Status) {
		case entities.GiftCardStatusRedeemed:
			stats.Redeemed += rw.Count
			if rw.Total.Valid && rw.Total.String != "" {
				amount, err := decimal.NewFromString(rw.Total.String)
				if err != nil {
					return nil, err
				}
				stats.TotalDistributed = stats.TotalDistributed.Add(amount)
			}
		case entities.GiftCardStatusCancelled:
			stats.Cancelled += rw.Count
		case entities.GiftCardStatusExpired:
			stats.Expired += rw.Count
		}
	}

	// Issued reports every card ever created, whatever its current status.
	stats.Issued = total
	if total > 0 {
		stats.ConversionRate = float64(stats.Redeemed) / float64(total)
	}
	return stats, nil
}

func (r *GiftCardRepository) toEntity(m *models.GiftCard) *entities.GiftCard {
	return &entities.GiftCard{
		ID:           m.ID,
		IssuerID:     m.IssuerID,
		InvitedName:  m.InvitedName,
		InvitedEmail: m.InvitedEmail,
		UnitsAmount:  m.UnitsAmount,
		Suggestions:  m.Suggestions,
		Token:        m.Token,
		Status:       entities.GiftCardStatus(m.Status),
		TemplateRef:  m.TemplateRef,
		RedeemedByID: m.RedeemedByID,
		RedeemedAt:   m.RedeemedAt,
		ExpiresAt:    m.ExpiresAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
