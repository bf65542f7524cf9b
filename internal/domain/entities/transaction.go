package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents transaction status
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusDisputed  TransactionStatus = "disputed"
)

// TransactionType represents the kind of exchange a transaction records
type TransactionType string

const (
	TransactionTypeServiceExchange   TransactionType = "SERVICE_EXCHANGE"
	TransactionTypeProductExchange   TransactionType = "PRODUCT_EXCHANGE"
	TransactionTypeKnowledgeExchange TransactionType = "KNOWLEDGE_EXCHANGE"
	TransactionTypeCommunityCredit   TransactionType = "COMMUNITY_CREDIT"
	TransactionTypeMarketplace       TransactionType = "MARKETPLACE_PURCHASE"
	TransactionTypeDirectTransfer    TransactionType = "DIRECT_TRANSFER"

	// Escrow entries recorded by the gift card engine. Single-sided: exactly
	// one of FromUserID/ToUserID is set, so sum-based conservation checks
	// treat the escrow pool as external.
	TransactionTypeGiftCardIssue    TransactionType = "GIFT_CARD_ISSUE"
	TransactionTypeGiftCardRedeem   TransactionType = "GIFT_CARD_REDEEM"
	TransactionTypeGiftCardReversal TransactionType = "GIFT_CARD_REVERSAL"
)

// ValidTransferTypes are the types accepted on the public transfer endpoint.
var ValidTransferTypes = map[TransactionType]bool{
	TransactionTypeServiceExchange:   true,
	TransactionTypeProductExchange:   true,
	TransactionTypeKnowledgeExchange: true,
	TransactionTypeCommunityCredit:   true,
	TransactionTypeMarketplace:       true,
	TransactionTypeDirectTransfer:    true,
}

// Transaction is an immutable ledger entry. Amount is always positive;
// direction is encoded by FromUserID/ToUserID. A nil FromUserID means
// system-issued credit, a nil ToUserID means an escrow hold.
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	FromUserID  *uuid.UUID        `json:"fromUserId,omitempty"`
	ToUserID    *uuid.UUID        `json:"toUserId,omitempty"`
	Amount      decimal.Decimal   `json:"amount"`
	Type        TransactionType   `json:"type"`
	Description string            `json:"description,omitempty"`
	Status      TransactionStatus `json:"status"`
	GiftCardID  *uuid.UUID        `json:"giftCardId,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// TransferInput represents input for a wallet-to-wallet transfer
type TransferInput struct {
	FromUserID  uuid.UUID       `json:"fromUserId" binding:"required"`
	ToUserID    uuid.UUID       `json:"toUserId" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type" binding:"required"`
	Description string          `json:"description"`
}
