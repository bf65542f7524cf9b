package usecases

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
	"units-exchange.backend/internal/domain/repositories"
	"units-exchange.backend/pkg/crypto"
	"units-exchange.backend/pkg/logger"
	"units-exchange.backend/pkg/metrics"
)

// GiftCardConfig holds invitation policy knobs
type GiftCardConfig struct {
	// How long a SENT card stays redeemable
	CardExpiry time.Duration
	// Lifetime of the promotional token minted at redemption
	PromoTokenExpiry time.Duration
	// Credit limit granted to the wallet minted at redemption
	DefaultCreditLimit decimal.Decimal
	// Neutral trust score stamped on new wallets
	NeutralTrustScore float64
}

// GiftCardUsecase implements the invitation engine: issuing pre-funded cards,
// redeeming them into a new account + wallet, cancellation and expiry.
// All state transitions out of SENT are guarded conditional updates, so a
// race between redeem, cancel and the expiry sweep resolves to exactly one
// winner; the losers observe an invalid-state error.
type GiftCardUsecase struct {
	giftCardRepo repositories.GiftCardRepository
	promoRepo    repositories.PromoTokenRepository
	walletRepo   repositories.WalletRepository
	userRepo     repositories.UserRepository
	txRepo       repositories.TransactionRepository
	outboxRepo   repositories.OutboxRepository
	uow          repositories.UnitOfWork
	config       GiftCardConfig
}

// NewGiftCardUsecase creates a new gift card usecase
func NewGiftCardUsecase(
	giftCardRepo repositories.GiftCardRepository,
	promoRepo repositories.PromoTokenRepository,
	walletRepo repositories.WalletRepository,
	userRepo repositories.UserRepository,
	txRepo repositories.TransactionRepository,
	outboxRepo repositories.OutboxRepository,
	uow repositories.UnitOfWork,
	config GiftCardConfig,
) *GiftCardUsecase {
	return &GiftCardUsecase{
		giftCardRepo: giftCardRepo,
		promoRepo:    promoRepo,
		walletRepo:   walletRepo,
		userRepo:     userRepo,
		txRepo:       txRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		config:       config,
	}
}

type giftCardEventPayload struct {
	GiftCardID   uuid.UUID       `json:"giftCardId"`
	IssuerID     uuid.UUID       `json:"issuerId"`
	InvitedEmail string          `json:"invitedEmail"`
	UnitsAmount  decimal.Decimal `json:"unitsAmount"`
	RedeemedByID *uuid.UUID      `json:"redeemedById,omitempty"`
}

// Issue debits the inviter's wallet and persists a single-use SENT card.
// The escrowed units are recorded as a single-sided ledger entry
// (source = issuer, destination = nil) so conservation sums treat the escrow
// pool as external.
func (u *GiftCardUsecase) Issue(ctx context.Context, input *entities.IssueGiftCardInput) (*entities.GiftCard, error) {
	if input.UnitsAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domainerrors.ErrInvalidAmount
	}

	if _, err := u.userRepo.GetByID(ctx, input.InviterID); err != nil {
		return nil, err
	}

	token, err := crypto.GenerateGiftCardToken()
	if err != nil {
		return nil, err
	}

	card := &entities.GiftCard{
		IssuerID:     input.InviterID,
		InvitedName:  input.InvitedName,
		InvitedEmail: strings.ToLower(input.InvitedEmail),
		UnitsAmount:  input.UnitsAmount,
		Suggestions:  input.Suggestions,
		TemplateRef:  input.TemplateRef,
		Token:        token,
		Status:       entities.GiftCardStatusSent,
		ExpiresAt:    time.Now().Add(u.config.CardExpiry),
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.GetForUpdate(txCtx, input.InviterID)
		if err != nil {
			return err
		}
		if !wallet.CanDebit(input.UnitsAmount) {
			return domainerrors.ErrInsufficientBalance
		}

		if err := u.walletRepo.UpdateBalance(txCtx, wallet.UserID, wallet.Balance.Sub(input.UnitsAmount)); err != nil {
			return err
		}
		if err := u.giftCardRepo.Create(txCtx, card); err != nil {
			return err
		}

		issuerID := input.InviterID
		escrow := &entities.Transaction{
			FromUserID:  &issuerID,
			Amount:      input.UnitsAmount,
			Type:        entities.TransactionTypeGiftCardIssue,
			Description: "Gift card issued to " + card.InvitedEmail,
			Status:      entities.TransactionStatusCompleted,
			GiftCardID:  &card.ID,
		}
		if err := u.txRepo.Create(txCtx, escrow); err != nil {
			return err
		}

		return u.enqueueCardEvent(txCtx, entities.TopicGiftCardIssued, card, nil)
	})
	if err != nil {
		return nil, err
	}

	metrics.GiftCardsTotal.WithLabelValues("issued").Inc()
	logger.Info(ctx, "gift card issued",
		zap.String("gift_card_id", card.ID.String()),
		zap.String("issuer_id", card.IssuerID.String()),
		zap.String("units", card.UnitsAmount.String()),
	)
	return card, nil
}

// Redeem consumes a SENT token and, as one atomic unit, creates the invitee's
// account, a wallet pre-funded with the card amount, a promotional token, the
// REDEEMED transition and the completion ledger entry.
func (u *GiftCardUsecase) Redeem(ctx context.Context, input *entities.RedeemGiftCardInput) (*entities.RedeemResult, error) {
	card, err := u.giftCardRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	if card.Status != entities.GiftCardStatusSent {
		if card.Status == entities.GiftCardStatusRedeemed {
			return nil, domainerrors.ErrAlreadyRedeemed
		}
		return nil, domainerrors.ErrInvalidStateTransition
	}
	if time.Now().After(card.ExpiresAt) {
		// Past deadline but not swept yet: behave as if already expired.
		return nil, domainerrors.ErrInvalidStateTransition
	}
	if !strings.EqualFold(card.InvitedEmail, input.InvitedEmail) {
		return nil, domainerrors.ErrEmailMismatch
	}

	email := strings.ToLower(input.InvitedEmail)
	if exists, err := u.userRepo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if exists {
		return nil, domainerrors.ErrDuplicateAccount
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        email,
		Name:         input.InvitedName,
		PasswordHash: passwordHash,
		Role:         entities.UserRoleMember,
	}
	wallet := &entities.Wallet{
		Balance:     card.UnitsAmount,
		CreditLimit: u.config.DefaultCreditLimit,
		TrustScore:  u.config.NeutralTrustScore,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		wallet.UserID = user.ID
		if err := u.walletRepo.Create(txCtx, wallet); err != nil {
			return err
		}

		if err := u.promoRepo.Create(txCtx, &entities.PromoToken{
			UserID:     user.ID,
			GiftCardID: card.ID,
			Amount:     card.UnitsAmount,
			ExpiresAt:  time.Now().Add(u.config.PromoTokenExpiry),
		}); err != nil {
			return err
		}

		now := time.Now()
		ok, err := u.giftCardRepo.TransitionStatus(txCtx, card.ID,
			entities.GiftCardStatusSent, entities.GiftCardStatusRedeemed, &user.ID, &now)
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race against a concurrent redeem, cancel or expiry.
			return domainerrors.ErrInvalidStateTransition
		}
		card.Status = entities.GiftCardStatusRedeemed
		card.RedeemedByID = &user.ID
		card.RedeemedAt = &now

		completion := &entities.Transaction{
			ToUserID:    &user.ID,
			Amount:      card.UnitsAmount,
			Type:        entities.TransactionTypeGiftCardRedeem,
			Description: "Gift card redeemed",
			Status:      entities.TransactionStatusCompleted,
			GiftCardID:  &card.ID,
		}
		if err := u.txRepo.Create(txCtx, completion); err != nil {
			return err
		}

		return u.enqueueCardEvent(txCtx, entities.TopicGiftCardRedeemed, card, &user.ID)
	})
	if err != nil {
		return nil, err
	}

	metrics.GiftCardsTotal.WithLabelValues("redeemed").Inc()
	logger.Info(ctx, "gift card redeemed",
		zap.String("gift_card_id", card.ID.String()),
		zap.String("redeemed_by", user.ID.String()),
	)
	return &entities.RedeemResult{User: user, Wallet: wallet, GiftCard: card}, nil
}

// Cancel flips a SENT card to CANCELLED and credits the escrowed units back
// to the issuer
func (u *GiftCardUsecase) Cancel(ctx context.Context, cardID, issuerID uuid.UUID) error {
	card, err := u.giftCardRepo.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card.IssuerID != issuerID {
		// Do not reveal other users' cards.
		return domainerrors.ErrNotFound
	}
	if card.Status != entities.GiftCardStatusSent {
		return domainerrors.ErrInvalidStateTransition
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		ok, err := u.giftCardRepo.TransitionStatus(txCtx, card.ID,
			entities.GiftCardStatusSent, entities.GiftCardStatusCancelled, nil, nil)
		if err != nil {
			return err
		}
		if !ok {
			return domainerrors.ErrInvalidStateTransition
		}
		return u.refundIssuer(txCtx, card, "Gift card cancelled")
	})
	if err != nil {
		return err
	}

	metrics.GiftCardsTotal.WithLabelValues("cancelled").Inc()
	logger.Info(ctx, "gift card cancelled", zap.String("gift_card_id", card.ID.String()))
	return nil
}

// ExpireOverdue transitions SENT cards past their deadline to EXPIRED,
// refunding the issuer. Idempotent and safe to run concurrently with redeem
// and cancel: each card is handled in its own guarded unit of work, and a
// card that loses its guard is simply skipped.
func (u *GiftCardUsecase) ExpireOverdue(ctx context.Context, batchSize int) (int, error) {
	cards, err := u.giftCardRepo.GetExpiredSent(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, card := range cards {
		card := card
		won := false
		err := u.uow.Do(ctx, func(txCtx context.Context) error {
			ok, err := u.giftCardRepo.TransitionStatus(txCtx, card.ID,
				entities.GiftCardStatusSent, entities.GiftCardStatusExpired, nil, nil)
			if err != nil {
				return err
			}
			if !ok {
				// Redeemed or cancelled since we listed it.
				return nil
			}
			won = true
			return u.refundIssuer(txCtx, card, "Gift card expired")
		})
		if err != nil {
			logger.Error(ctx, "failed to expire gift card",
				zap.String("gift_card_id", card.ID.String()), zap.Error(err))
			continue
		}
		if !won {
			continue
		}
		expired++
		metrics.GiftCardsTotal.WithLabelValues("expired").Inc()
	}
	return expired, nil
}

// Stats aggregates gift card counters; read-only
func (u *GiftCardUsecase) Stats(ctx context.Context, filter *entities.GiftCardStatsFilter) (*entities.GiftCardStats, error) {
	return u.giftCardRepo.Stats(ctx, filter)
}

// ListByIssuer returns the cards a user has issued
func (u *GiftCardUsecase) ListByIssuer(ctx context.Context, issuerID uuid.UUID) ([]*entities.GiftCard, error) {
	cards, err := u.giftCardRepo.GetByIssuerID(ctx, issuerID)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []*entities.GiftCard{}
	}
	return cards, nil
}

func (u *GiftCardUsecase) refundIssuer(ctx context.Context, card *entities.GiftCard, description string) error {
	wallet, err := u.walletRepo.GetForUpdate(ctx, card.IssuerID)
	if err != nil {
		return err
	}
	if err := u.walletRepo.UpdateBalance(ctx, wallet.UserID, wallet.Balance.Add(card.UnitsAmount)); err != nil {
		return err
	}

	issuerID := card.IssuerID
	reversal := &entities.Transaction{
		ToUserID:    &issuerID,
		Amount:      card.UnitsAmount,
		Type:        entities.TransactionTypeGiftCardReversal,
		Description: description,
		Status:      entities.TransactionStatusCompleted,
		GiftCardID:  &card.ID,
	}
	if err := u.txRepo.Create(ctx, reversal); err != nil {
		return err
	}

	return u.enqueueCardEvent(ctx, entities.TopicGiftCardReversal, card, nil)
}

func (u *GiftCardUsecase) enqueueCardEvent(ctx context.Context, topic string, card *entities.GiftCard, redeemedBy *uuid.UUID) error {
	payload, err := json.Marshal(giftCardEventPayload{
		GiftCardID:   card.ID,
		IssuerID:     card.IssuerID,
		InvitedEmail: card.InvitedEmail,
		UnitsAmount:  card.UnitsAmount,
		RedeemedByID: redeemedBy,
	})
	if err != nil {
		return err
	}
	return u.outboxRepo.Create(ctx, &entities.OutboxEvent{
		Topic:   topic,
		Payload: string(payload),
	})
}
