package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
	"units-exchange.backend/internal/domain/repositories"
	"units-exchange.backend/pkg/logger"
)

// TrustConfig holds the score shrinkage policy
type TrustConfig struct {
	// Score reported when a user has no ratings yet, and the midpoint
	// low-sample scores decay toward
	NeutralScore float64
	// Weight of the neutral prior relative to real ratings
	PriorWeight float64
	// Sample size at which shrinkage stops applying
	MinSampleSize int64
}

// TrustUsecase aggregates peer ratings into trust scores. It reports scores
// only; credit-limit policy is a separate administrative operation.
type TrustUsecase struct {
	ratingRepo repositories.TrustRatingRepository
	userRepo   repositories.UserRepository
	walletRepo repositories.WalletRepository
	txRepo     repositories.TransactionRepository
	config     TrustConfig
}

// NewTrustUsecase creates a new trust usecase
func NewTrustUsecase(
	ratingRepo repositories.TrustRatingRepository,
	userRepo repositories.UserRepository,
	walletRepo repositories.WalletRepository,
	txRepo repositories.TransactionRepository,
	config TrustConfig,
) *TrustUsecase {
	return &TrustUsecase{
		ratingRepo: ratingRepo,
		userRepo:   userRepo,
		walletRepo: walletRepo,
		txRepo:     txRepo,
		config:     config,
	}
}

// RateUser records a trust rating for a counterpart, at most once per
// (rater, rated, transaction) triple
func (u *TrustUsecase) RateUser(ctx context.Context, input *entities.RateUserInput) (*entities.TrustRating, error) {
	if input.Rating < entities.RatingMin || input.Rating > entities.RatingMax {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.RaterID == input.RatedID {
		return nil, domainerrors.ErrInvalidInput
	}

	if _, err := u.userRepo.GetByID(ctx, input.RatedID); err != nil {
		return nil, err
	}

	if input.TransactionID != nil {
		tx, err := u.txRepo.GetByID(ctx, *input.TransactionID)
		if err != nil {
			return nil, err
		}
		if !transactionInvolves(tx, input.RaterID) || !transactionInvolves(tx, input.RatedID) {
			return nil, domainerrors.ErrForbidden
		}
	}

	exists, err := u.ratingRepo.ExistsForTransaction(ctx, input.RaterID, input.RatedID, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainerrors.ErrDuplicateRating
	}

	rating := &entities.TrustRating{
		RaterID:       input.RaterID,
		RatedID:       input.RatedID,
		TransactionID: input.TransactionID,
		Rating:        input.Rating,
		Communication: null.IntFromPtr(input.Communication),
		Delivery:      null.IntFromPtr(input.Delivery),
		Quality:       null.IntFromPtr(input.Quality),
		Comments:      input.Comments,
	}
	if err := u.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	// Refresh the cached score on the rated user's wallet. Best-effort: the
	// rating itself is already durable.
	score, err := u.ComputeScore(ctx, input.RatedID)
	if err == nil {
		if err := u.walletRepo.UpdateTrustScore(ctx, input.RatedID, score.TrustScore); err != nil {
			logger.Warn(ctx, "failed to refresh wallet trust score",
				zap.String("user_id", input.RatedID.String()), zap.Error(err))
		}
	}

	return rating, nil
}

// ComputeScore aggregates all ratings received by a user into a normalized
// trust score in [0,1]. Below the minimum sample the mean is shrunk toward
// the neutral midpoint so a single 5-star rating cannot produce a maximal
// score; with no ratings at all the neutral default is reported unchanged.
func (u *TrustUsecase) ComputeScore(ctx context.Context, userID uuid.UUID) (*entities.TrustScore, error) {
	count, average, breakdown, err := u.ratingRepo.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &entities.TrustScore{
		UserID:        userID,
		RatingCount:   count,
		AverageRating: average,
		Breakdown:     breakdown,
		TrustScore:    u.config.NeutralScore,
	}
	if count == 0 {
		return result, nil
	}

	normalized := (average - entities.RatingMin) / float64(entities.RatingMax-entities.RatingMin)
	if count < u.config.MinSampleSize {
		n := float64(count)
		normalized = (normalized*n + u.config.NeutralScore*u.config.PriorWeight) / (n + u.config.PriorWeight)
	}
	result.TrustScore = normalized
	return result, nil
}

// ListRatings returns ratings received by a user
func (u *TrustUsecase) ListRatings(ctx context.Context, userID uuid.UUID) ([]*entities.TrustRating, error) {
	ratings, err := u.ratingRepo.GetByRatedID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []*entities.TrustRating{}
	}
	return ratings, nil
}

func transactionInvolves(tx *entities.Transaction, userID uuid.UUID) bool {
	if tx.FromUserID != nil && *tx.FromUserID == userID {
		return true
	}
	return tx.ToUserID != nil && *tx.ToUserID == userID
}
