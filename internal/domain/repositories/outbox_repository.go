package repositories

import (
	"context"

	"github.com/google/uuid"
	"units-exchange.backend/internal/domain/entities"
)

// OutboxRepository defines notification outbox operations. Events are written
// inside the same unit of work as the ledger mutation they describe and
// dispatched asynchronously, so notification delivery can never roll back a
// committed financial transaction.
type OutboxRepository interface {
	Create(ctx context.Context, event *entities.OutboxEvent) error
	GetPending(ctx context.Context, limit int) ([]*entities.OutboxEvent, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}
