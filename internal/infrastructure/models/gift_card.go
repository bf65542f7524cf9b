package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GiftCard is a first-class typed row; status transitions are guarded by
// conditional updates on the status column.
type GiftCard struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	IssuerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvitedName  string          `gorm:"type:varchar(255);not null"`
	InvitedEmail string          `gorm:"type:varchar(255);not null;index"`
	UnitsAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Suggestions  string          `gorm:"type:text"`
	Token        string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status       string          `gorm:"type:varchar(50);not null;index"`
	TemplateRef  string          `gorm:"type:varchar(255)"`
	RedeemedByID *uuid.UUID      `gorm:"type:uuid;index"`
	RedeemedAt   *time.Time
	ExpiresAt    time.Time `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PromoToken struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	GiftCardID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	ExpiresAt  time.Time       `gorm:"not null"`
	CreatedAt  time.Time
}
