package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"units-exchange.backend/internal/domain/entities"
	"units-exchange.backend/internal/infrastructure/models"
)

// TrustRatingRepository implements trust rating operations
type TrustRatingRepository struct {
	db *gorm.DB
}

// NewTrustRatingRepository creates a new trust rating repository
func NewTrustRatingRepository(db *gorm.DB) *TrustRatingRepository {
	return &TrustRatingRepository{db: db}
}

// Create appends a trust rating
func (r *TrustRatingRepository) Create(ctx context.Context, rating *entities.TrustRating) error {
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	m := &models.TrustRating{
		ID:            rating.ID,
		RaterID:       rating.RaterID,
		RatedID:       rating.RatedID,
		TransactionID: rating.TransactionID,
		Rating:        rating.Rating,
		Communication: rating.Communication,
		Delivery:      rating.Delivery,
		Quality:       rating.Quality,
		Comments:      rating.Comments,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	rating.CreatedAt = m.CreatedAt
	return nil
}

// GetByRatedID lists ratings received by a user, newest first
func (r *TrustRatingRepository) GetByRatedID(ctx context.Context, ratedID uuid.UUID) ([]*entities.TrustRating, error) {
	var ms []models.TrustRating
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("rated_id = ?", ratedID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var ratings []*entities.TrustRating
	for _, m := range ms {
		model := m
		ratings = append(ratings, r.toEntity(&model))
	}
	return ratings, nil
}

// ExistsForTransaction reports whether the rater already rated this
// counterpart for the given transaction
func (r *TrustRatingRepository) ExistsForTransaction(ctx context.Context, raterID, ratedID uuid.UUID, transactionID *uuid.UUID) (bool, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.TrustRating{}).
		Where("rater_id = ? AND rated_id = ?", raterID, ratedID)
	if transactionID != nil {
		db = db.Where("transaction_id = ?", *transactionID)
	} else {
		db = db.Where("transaction_id IS NULL")
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Aggregate computes count, arithmetic mean and per-star bucket counts over
// all ratings received by a user
func (r *TrustRatingRepository) Aggregate(ctx context.Context, ratedID uuid.UUID) (int64, float64, map[int]int, error) {
	type bucket struct {
		Rating int
		Count  int
	}

	var buckets []bucket
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.TrustRating{}).
		Select("rating, COUNT(*) as count").
		Where("rated_id = ?", ratedID).
		Group("rating").
		Scan(&buckets).Error; err != nil {
		return 0, 0, nil, err
	}

	breakdown := make(map[int]int, entities.RatingMax)
	for star := entities.RatingMin; star <= entities.RatingMax; star++ {
		breakdown[star] = 0
	}

	var count int64
	var sum int64
	for _, b := range buckets {
		breakdown[b.Rating] = b.Count
		count += int64(b.Count)
		sum += int64(b.Rating) * int64(b.Count)
	}

	if count == 0 {
		return 0, 0, breakdown, nil
	}
	return count, float64(sum) / float64(count), breakdown, nil
}

func (r *TrustRatingRepository) toEntity(m *models.TrustRating) *entities.TrustRating {
	return &entities.TrustRating{
		ID:            m.ID,
		RaterID:       m.RaterID,
		RatedID:       m.RatedID,
		TransactionID: m.TransactionID,
		Rating:        m.Rating,
		Communication: m.Communication,
		Delivery:      m.Delivery,
		Quality:       m.Quality,
		Comments:      m.Comments,
		CreatedAt:     m.CreatedAt,
	}
}
