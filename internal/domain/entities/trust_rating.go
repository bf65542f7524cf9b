package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Rating scale bounds for overall and sub-ratings
const (
	RatingMin = 1
	RatingMax = 5
)

// TrustRating is a single peer rating left after a transaction.
// Immutable once created; one per (rater, rated, transaction) triple.
type TrustRating struct {
	ID            uuid.UUID  `json:"id"`
	RaterID       uuid.UUID  `json:"raterId"`
	RatedID       uuid.UUID  `json:"ratedId"`
	TransactionID *uuid.UUID `json:"transactionId,omitempty"`
	Rating        int        `json:"rating"`
	Communication null.Int   `json:"communication,omitempty"`
	Delivery      null.Int   `json:"delivery,omitempty"`
	Quality       null.Int   `json:"quality,omitempty"`
	Comments      string     `json:"comments,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// RateUserInput represents input for submitting a trust rating
type RateUserInput struct {
	RaterID       uuid.UUID  `json:"raterId" binding:"required"`
	RatedID       uuid.UUID  `json:"ratedId" binding:"required"`
	TransactionID *uuid.UUID `json:"transactionId"`
	Rating        int        `json:"rating" binding:"required,min=1,max=5"`
	Communication *int       `json:"communication" binding:"omitempty,min=1,max=5"`
	Delivery      *int       `json:"delivery" binding:"omitempty,min=1,max=5"`
	Quality       *int       `json:"quality" binding:"omitempty,min=1,max=5"`
	Comments      string     `json:"comments"`
}

// TrustScore is the aggregated reputation report for a user
type TrustScore struct {
	UserID        uuid.UUID   `json:"userId"`
	TrustScore    float64     `json:"trustScore"`
	RatingCount   int64       `json:"ratingCount"`
	AverageRating float64     `json:"averageRating"`
	Breakdown     map[int]int `json:"breakdown"`
}
