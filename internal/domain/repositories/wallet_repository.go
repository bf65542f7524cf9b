package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"units-exchange.backend/internal/domain/entities"
)

// WalletRepository defines wallet data operations.
// GetForUpdate must be called inside a UnitOfWork scope; it takes a row-level
// lock on the wallet so concurrent balance mutations serialize.
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	UpdateBalance(ctx context.Context, userID uuid.UUID, newBalance decimal.Decimal) error
	UpdateCreditLimit(ctx context.Context, userID uuid.UUID, newLimit decimal.Decimal) error
	UpdateTrustScore(ctx context.Context, userID uuid.UUID, score float64) error
	SumBalances(ctx context.Context) (decimal.Decimal, error)
}
