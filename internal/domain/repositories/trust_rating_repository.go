package repositories

import (
	"context"

	"github.com/google/uuid"
	"units-exchange.backend/internal/domain/entities"
)

// TrustRatingRepository defines trust rating operations (append-only)
type TrustRatingRepository interface {
	Create(ctx context.Context, rating *entities.TrustRating) error
	GetByRatedID(ctx context.Context, ratedID uuid.UUID) ([]*entities.TrustRating, error)
	ExistsForTransaction(ctx context.Context, raterID, ratedID uuid.UUID, transactionID *uuid.UUID) (bool, error)
	Aggregate(ctx context.Context, ratedID uuid.UUID) (count int64, average float64, breakdown map[int]int, err error)
}
