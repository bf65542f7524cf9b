package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
	"units-exchange.backend/internal/domain/repositories"
	"units-exchange.backend/pkg/logger"
	"units-exchange.backend/pkg/metrics"
	"units-exchange.backend/pkg/utils"
)

// WalletUsecase owns balance mutation logic, credit-limit enforcement and
// atomic transfer execution
type WalletUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.TransactionRepository
	outboxRepo repositories.OutboxRepository
	uow        repositories.UnitOfWork
	maxRetries int
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.TransactionRepository,
	outboxRepo repositories.OutboxRepository,
	uow repositories.UnitOfWork,
	maxRetries int,
) *WalletUsecase {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &WalletUsecase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		maxRetries: maxRetries,
	}
}

// balanceChangedPayload is the notification body for completed transfers
type balanceChangedPayload struct {
	TransactionID uuid.UUID       `json:"transactionId"`
	FromUserID    uuid.UUID       `json:"fromUserId"`
	ToUserID      uuid.UUID       `json:"toUserId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
}

// Transfer moves Units between two wallets. The balance check, both balance
// updates and the ledger entry commit as one unit of work; concurrency
// conflicts are retried a bounded number of times before surfacing.
func (u *WalletUsecase) Transfer(ctx context.Context, input *entities.TransferInput) (*entities.Transaction, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domainerrors.ErrInvalidAmount
	}
	if input.FromUserID == input.ToUserID {
		return nil, domainerrors.ErrSelfTransfer
	}
	if !entities.ValidTransferTypes[input.Type] {
		return nil, domainerrors.ErrInvalidInput
	}

	var tx *entities.Transaction
	var err error
	for attempt := 0; ; attempt++ {
		tx, err = u.executeTransfer(ctx, input)
		if err == nil || !errors.Is(err, domainerrors.ErrConcurrencyConflict) || attempt >= u.maxRetries {
			break
		}
		metrics.TransferRetries.Inc()
		logger.Warn(ctx, "retrying transfer after concurrency conflict",
			zap.Int("attempt", attempt+1),
			zap.String("from", input.FromUserID.String()),
			zap.String("to", input.ToUserID.String()),
		)
	}
	if err != nil {
		metrics.TransfersTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	metrics.TransfersTotal.WithLabelValues("completed").Inc()
	return tx, nil
}

func (u *WalletUsecase) executeTransfer(ctx context.Context, input *entities.TransferInput) (*entities.Transaction, error) {
	var tx *entities.Transaction

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		// Lock both wallet rows in deterministic order to avoid deadlocks
		// between opposing concurrent transfers.
		first, second := input.FromUserID, input.ToUserID
		if bytes.Compare(second[:], first[:]) < 0 {
			first, second = second, first
		}

		wallets := make(map[uuid.UUID]*entities.Wallet, 2)
		for _, id := range []uuid.UUID{first, second} {
			w, err := u.walletRepo.GetForUpdate(txCtx, id)
			if err != nil {
				return err
			}
			wallets[id] = w
		}

		from := wallets[input.FromUserID]
		to := wallets[input.ToUserID]

		if !from.CanDebit(input.Amount) {
			return domainerrors.ErrInsufficientCredit
		}

		if err := u.walletRepo.UpdateBalance(txCtx, from.UserID, from.Balance.Sub(input.Amount)); err != nil {
			return err
		}
		if err := u.walletRepo.UpdateBalance(txCtx, to.UserID, to.Balance.Add(input.Amount)); err != nil {
			return err
		}

		fromID, toID := input.FromUserID, input.ToUserID
		tx = &entities.Transaction{
			FromUserID:  &fromID,
			ToUserID:    &toID,
			Amount:      input.Amount,
			Type:        input.Type,
			Description: input.Description,
			Status:      entities.TransactionStatusCompleted,
		}
		if err := u.txRepo.Create(txCtx, tx); err != nil {
			return err
		}

		return u.enqueueBalanceChanged(txCtx, tx)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (u *WalletUsecase) enqueueBalanceChanged(ctx context.Context, tx *entities.Transaction) error {
	payload, err := json.Marshal(balanceChangedPayload{
		TransactionID: tx.ID,
		FromUserID:    *tx.FromUserID,
		ToUserID:      *tx.ToUserID,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
	})
	if err != nil {
		return err
	}
	return u.outboxRepo.Create(ctx, &entities.OutboxEvent{
		Topic:   entities.TopicBalanceChanged,
		Payload: string(payload),
	})
}

// AdjustCreditLimit is the administrative credit-limit update. The new floor
// only constrains future debits; a wallet already deeper in debt than the new
// limit keeps its balance and simply cannot spend until it recovers.
func (u *WalletUsecase) AdjustCreditLimit(ctx context.Context, userID uuid.UUID, newLimit decimal.Decimal) (*entities.Wallet, error) {
	if newLimit.IsNegative() {
		return nil, domainerrors.ErrInvalidLimit
	}

	if err := u.walletRepo.UpdateCreditLimit(ctx, userID, newLimit); err != nil {
		return nil, err
	}

	logger.Info(ctx, "credit limit adjusted",
		zap.String("user_id", userID.String()),
		zap.String("new_limit", newLimit.String()),
	)
	return u.walletRepo.GetByUserID(ctx, userID)
}

// GetBalance returns a read-only wallet snapshot
func (u *WalletUsecase) GetBalance(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetByUserID(ctx, userID)
}

// ListTransactions returns the user's transaction history, newest first
func (u *WalletUsecase) ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Transaction, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)

	txs, total, err := u.txRepo.GetByUserID(ctx, userID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	if txs == nil {
		txs = []*entities.Transaction{}
	}
	return txs, utils.CalculateMeta(total, params.Page, params.Limit), nil
}
