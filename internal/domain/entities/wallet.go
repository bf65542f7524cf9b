package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet represents a user's Units wallet. Exactly one per user.
// Invariant: Balance >= -CreditLimit at all times.
type Wallet struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	TrustScore  float64         `json:"trustScore"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"-"`

	// Joins
	User *User `json:"user,omitempty"`
}

// AvailableCredit returns how many units the wallet can still spend before
// hitting the credit floor.
func (w *Wallet) AvailableCredit() decimal.Decimal {
	return w.Balance.Add(w.CreditLimit)
}

// CanDebit reports whether debiting amount keeps the balance at or above
// -CreditLimit. The boundary is inclusive.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.Sub(amount).GreaterThanOrEqual(w.CreditLimit.Neg())
}

// AdjustCreditLimitInput represents input for the administrative credit-limit update
type AdjustCreditLimitInput struct {
	NewLimit decimal.Decimal `json:"newLimit"`
}
