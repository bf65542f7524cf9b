package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction rows are append-only; only the status column ever changes.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FromUserID  *uuid.UUID      `gorm:"type:uuid;index"` // nil = system-issued credit
	ToUserID    *uuid.UUID      `gorm:"type:uuid;index"` // nil = escrow hold
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Type        string          `gorm:"type:varchar(50);not null;index"`
	Description string          `gorm:"type:text"`
	Status      string          `gorm:"type:varchar(50);not null;index"`
	GiftCardID  *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt   time.Time       `gorm:"index"`
}
