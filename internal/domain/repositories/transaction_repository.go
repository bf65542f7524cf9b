package repositories

import (
	"context"

	"github.com/google/uuid"
	"units-exchange.backend/internal/domain/entities"
)

// TransactionRepository defines ledger entry operations. The ledger is
// append-only: entries are never updated except for status transitions.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransactionStatus) error
}
