package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Wallet struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"` // 1:1 with users
	Balance     decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	TrustScore  float64         `gorm:"not null;default:0.5"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:ID"`
}
