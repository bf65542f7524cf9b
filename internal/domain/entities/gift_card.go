package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GiftCardStatus represents the gift card state machine.
// SENT is the only non-terminal state: SENT -> REDEEMED | CANCELLED | EXPIRED.
type GiftCardStatus string

const (
	GiftCardStatusSent      GiftCardStatus = "SENT"
	GiftCardStatusRedeemed  GiftCardStatus = "REDEEMED"
	GiftCardStatusExpired   GiftCardStatus = "EXPIRED"
	GiftCardStatusCancelled GiftCardStatus = "CANCELLED"
)

// GiftCard represents pre-funded Units offered to a not-yet-registered person.
// The issuer's wallet is debited at creation and credited back only on
// cancellation or expiry.
type GiftCard struct {
	ID             uuid.UUID       `json:"id"`
	IssuerID       uuid.UUID       `json:"issuerId"`
	InvitedName    string          `json:"invitedName"`
	InvitedEmail   string          `json:"invitedEmail"`
	UnitsAmount    decimal.Decimal `json:"unitsAmount"`
	Suggestions    string          `json:"suggestions,omitempty"`
	Token          string          `json:"token"`
	Status         GiftCardStatus  `json:"status"`
	TemplateRef    string          `json:"templateRef,omitempty"`
	RedeemedByID   *uuid.UUID      `json:"redeemedById,omitempty"`
	RedeemedAt     *time.Time      `json:"redeemedAt,omitempty"`
	ExpiresAt      time.Time       `json:"expiresAt"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	// Joins
	Issuer *User `json:"issuer,omitempty"`
}

// IssueGiftCardInput represents input for issuing an invitation gift card
type IssueGiftCardInput struct {
	InviterID    uuid.UUID       `json:"inviterId" binding:"required"`
	InvitedName  string          `json:"invitedName" binding:"required"`
	InvitedEmail string          `json:"invitedEmail" binding:"required,email"`
	UnitsAmount  decimal.Decimal `json:"unitsAmount"`
	Suggestions  string          `json:"suggestions"`
	TemplateRef  string          `json:"templateRef"`
}

// RedeemGiftCardInput represents input for redeeming a gift card token
type RedeemGiftCardInput struct {
	Token        string `json:"token" binding:"required"`
	InvitedEmail string `json:"invitedEmail" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	InvitedName  string `json:"invitedName" binding:"required"`
}

// RedeemResult is returned on successful redemption
type RedeemResult struct {
	User     *User     `json:"user"`
	Wallet   *Wallet   `json:"wallet"`
	GiftCard *GiftCard `json:"giftCard"`
}

// GiftCardStatsFilter filters the stats aggregation
type GiftCardStatsFilter struct {
	IssuerID *uuid.UUID `form:"issuerId"`
	Since    *time.Time `form:"since"`
}

// GiftCardStats is the read-only aggregation over gift cards
type GiftCardStats struct {
	Issued           int64           `json:"issued"`
	Redeemed         int64           `json:"redeemed"`
	Cancelled        int64           `json:"cancelled"`
	Expired          int64           `json:"expired"`
	TotalDistributed decimal.Decimal `json:"totalDistributed"`
	ConversionRate   float64         `json:"conversionRate"`
}

// PromoToken is the promotional allocation minted for a redeemed invitee.
type PromoToken struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	GiftCardID uuid.UUID       `json:"giftCardId"`
	Amount     decimal.Decimal `json:"amount"`
	ExpiresAt  time.Time       `json:"expiresAt"`
	CreatedAt  time.Time       `json:"createdAt"`
}
