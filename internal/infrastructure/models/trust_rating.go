package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type TrustRating struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	RaterID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_trust_ratings_triple,unique"`
	RatedID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_trust_ratings_triple,unique;index"`
	TransactionID *uuid.UUID `gorm:"type:uuid;index:idx_trust_ratings_triple,unique"`
	Rating        int        `gorm:"not null"`
	Communication null.Int   `gorm:"type:int"`
	Delivery      null.Int   `gorm:"type:int"`
	Quality       null.Int   `gorm:"type:int"`
	Comments      string     `gorm:"type:text"`
	CreatedAt     time.Time
}
