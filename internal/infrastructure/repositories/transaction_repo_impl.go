package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
	"units-exchange.backend/internal/infrastructure/models"
)

// TransactionRepository implements ledger entry operations
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *TransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	m := &models.Transaction{
		ID:          tx.ID,
		FromUserID:  tx.FromUserID,
		ToUserID:    tx.ToUserID,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Description: tx.Description,
		Status:      string(tx.Status),
		GiftCardID:  tx.GiftCardID,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	tx.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	var m models.Transaction
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID lists transactions where the user is either side, newest first
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Transaction{}).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var ms []models.Transaction
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var txs []*entities.Transaction
	for _, m := range ms {
		model := m
		txs = append(txs, r.toEntity(&model))
	}
	return txs, total, nil
}

// UpdateStatus transitions a transaction's status (the only permitted mutation)
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransactionStatus) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) toEntity(m *models.Transaction) *entities.Transaction {
	return &entities.Transaction{
		ID:          m.ID,
		FromUserID:  m.FromUserID,
		ToUserID:    m.ToUserID,
		Amount:      m.Amount,
		Type:        entities.TransactionType(m.Type),
		Description: m.Description,
		Status:      entities.TransactionStatus(m.Status),
		GiftCardID:  m.GiftCardID,
		CreatedAt:   m.CreatedAt,
	}
}
