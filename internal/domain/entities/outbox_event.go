package entities

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents outbox delivery status
type OutboxEventStatus string

const (
	OutboxEventStatusPending OutboxEventStatus = "pending"
	OutboxEventStatusSent    OutboxEventStatus = "sent"
	OutboxEventStatusFailed  OutboxEventStatus = "failed"
)

// Outbox event topics consumed by the notification sink
const (
	TopicBalanceChanged   = "ledger.balance_changed"
	TopicGiftCardIssued   = "ledger.gift_card_issued"
	TopicGiftCardRedeemed = "ledger.gift_card_redeemed"
	TopicGiftCardReversal = "ledger.gift_card_reversal"
)

// OutboxEvent is a notification written transactionally alongside a ledger
// mutation and delivered best-effort by the outbox dispatcher.
type OutboxEvent struct {
	ID        uuid.UUID         `json:"id"`
	Topic     string            `json:"topic"`
	Payload   string            `json:"payload"` // JSON
	Status    OutboxEventStatus `json:"status"`
	Attempts  int               `json:"attempts"`
	CreatedAt time.Time         `json:"createdAt"`
	SentAt    *time.Time        `json:"sentAt,omitempty"`
}
