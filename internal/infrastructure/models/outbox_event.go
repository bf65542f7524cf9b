package models

import (
	"time"

	"github.com/google/uuid"
)

type OutboxEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Topic     string    `gorm:"type:varchar(100);not null;index"`
	Payload   string    `gorm:"type:jsonb;not null"`
	Status    string    `gorm:"type:varchar(50);not null;index"`
	Attempts  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index"`
	SentAt    *time.Time
}
