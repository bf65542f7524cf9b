package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
	"units-exchange.backend/internal/usecases"
	"units-exchange.backend/pkg/crypto"
)

var testGiftCardConfig = usecases.GiftCardConfig{
	CardExpiry:         30 * 24 * time.Hour,
	PromoTokenExpiry:   365 * 24 * time.Hour,
	DefaultCreditLimit: decimal.NewFromInt(50),
	NeutralTrustScore:  0.5,
}

type giftCardFixture struct {
	uc           *usecases.GiftCardUsecase
	giftCardRepo *MockGiftCardRepository
	promoRepo    *MockPromoTokenRepository
	walletRepo   *MockWalletRepository
	userRepo     *MockUserRepository
	txRepo       *MockTransactionRepository
	outboxRepo   *MockOutboxRepository
	uow          *MockUnitOfWork
}

func newGiftCardFixture() *giftCardFixture {
	f := &giftCardFixture{
		giftCardRepo: new(MockGiftCardRepository),
		promoRepo:    new(MockPromoTokenRepository),
		walletRepo:   new(MockWalletRepository),
		userRepo:     new(MockUserRepository),
		txRepo:       new(MockTransactionRepository),
		outboxRepo:   new(MockOutboxRepository),
		uow:          new(MockUnitOfWork),
	}
	f.uc = usecases.NewGiftCardUsecase(f.giftCardRepo, f.promoRepo, f.walletRepo,
		f.userRepo, f.txRepo, f.outboxRepo, f.uow, testGiftCardConfig)
	return f
}

func TestIssue_DebitsIssuerAndEscrows(t *testing.T) {
	f := newGiftCardFixture()
	ctx := context.Background()

	issuer := uuid.New()
	wallet := &entities.Wallet{UserID: issuer, Balance: decimal.NewFromInt(100), CreditLimit: decimal.NewFromInt(50)}

	f.userRepo.On("GetByID", mock.Anything, issuer).Return(&entities.User{ID: issuer}, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.walletRepo.On("GetForUpdate", mock.Anything, issuer).Return(wallet, nil)
	f.walletRepo.On("UpdateBalance", mock.Anything, issuer, decimalEq(decimal.NewFromInt(80))).Return(nil)
	f.giftCardRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	var escrow *entities.Transaction
	f.txRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		escrow = args.Get(1).(*entities.Transaction)
	}).Return(nil)
	f.outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	card, err := f.uc.Issue(ctx, &entities.IssueGiftCardInput{
		InviterID:    issuer,
		InvitedName:  "Bea",
		InvitedEmail: "Bea@Example.com",
		UnitsAmount:  decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	require.Equal(t, entities.GiftCardStatusSent, card.Status)
	require.Equal(t, "bea@example.com", card.InvitedEmail)
	require.Len(t, card.Token, crypto.GiftCardTokenLength)
	require.WithinDuration(t, time.Now().Add(testGiftCardConfig.CardExpiry), card.ExpiresAt, time.Minute)

	// Escrow entry is single-sided: out of the issuer, into nothing.
	require.NotNil(t, escrow)
	require.Equal(t, &issuer, escrow.FromUserID)
	require.Nil(t, escrow.ToUserID)
	require.Equal(t, entities.TransactionTypeGiftCardIssue, escrow.Type)

	f.walletRepo.AssertExpectations(t)
}

func TestIssue_Rejections(t *testing.T) {
	f := newGiftCardFixture()
	ctx := context.Background()
	issuer := uuid.New()

	_, err := f.uc.Issue(ctx, &entities.IssueGiftCardInput{
		InviterID: issuer, InvitedEmail: "x@example.com", UnitsAmount: decimal.Zero,
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidAmount)

	// Issuer cannot dip into credit to fund a card.
	wallet := &entities.Wallet{UserID: issuer, Balance: decimal.NewFromInt(10), CreditLimit: decimal.Zero}
	f.userRepo.On("GetByID", mock.Anything, issuer).Return(&entities.User{ID: issuer}, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.walletRepo.On("GetForUpdate", mock.Anything, issuer).Return(wallet, nil)

	_, err = f.uc.Issue(ctx, &entities.IssueGiftCardInput{
		InviterID: issuer, InvitedEmail: "x@example.com", UnitsAmount: decimal.NewFromInt(20),
	})
	require.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)
	f.giftCardRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func sentCard(issuer uuid.UUID, amount int64) *entities.GiftCard {
	return &entities.GiftCard{
		ID:           uuid.New(),
		IssuerID:     issuer,
		InvitedName:  "Bea",
		InvitedEmail: "bea@example.com",
		UnitsAmount:  decimal.NewFromInt(amount),
		Token:        "tok",
		Status:       entities.GiftCardStatusSent,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	}
}

func TestRedeem_ProvisionsAccountAtomically(t *testing.T) {
	f := newGiftCardFixture()
	ctx := context.Background()

	issuer := uuid.New()
	card := sentCard(issuer, 20)

	f.giftCardRepo.On("GetByToken", mock.Anything, "tok").Return(card, nil)
	f.userRepo.On("ExistsByEmail", mock.Anything, "bea@example.com").Return(false, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.walletRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.promoRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.giftCardRepo.On("TransitionStatus", mock.Anything, card.ID,
		entities.GiftCardStatusSent, entities.GiftCardStatusRedeemed, mock.Anything, mock.Anything).Return(true, nil)
	var completion *entities.Transaction
	f.txRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		completion = args.Get(1).(*entities.Transaction)
	}).Return(nil)
	f.outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.uc.Redeem(ctx, &entities.RedeemGiftCardInput{
		Token:        "tok",
		InvitedEmail: "BEA@example.com", // case-insensitive match
		Password:     "s3cret-pass",
		InvitedName:  "Bea",
	})
	require.NoError(t, err)
	require.Equal(t, "bea@example.com", result.User.Email)
	require.Equal(t, entities.UserRoleMember, result.User.Role)

	// Wallet starts pre-funded with the card amount and the default limit.
	require.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(20)))
	require.True(t, result.Wallet.CreditLimit.Equal(decimal.NewFromInt(50)))
	require.Equal(t, 0.5, result.Wallet.TrustScore)
	require.Equal(t, result.User.ID, result.Wallet.UserID)

	require.Equal(t, entities.GiftCardStatusRedeemed, result.GiftCard.Status)
	require.Equal(t, &result.User.ID, result.GiftCard.RedeemedByID)

	// Completion entry is single-sided into the new user.
	require.NotNil(t, completion)
	require.Nil(t, completion.FromUserID)
	require.Equal(t, &result.User.ID, completion.ToUserID)
	require.Equal(t, entities.TransactionTypeGiftCardRedeem, completion.Type)

	// Password is stored hashed, never verbatim.
	require.NotEqual(t, "s3cret-pass", result.User.PasswordHash)
	require.True(t, crypto.CheckPassword("s3cret-pass", result.User.PasswordHash))
}

func TestRedeem_Rejections(t *testing.T) {
	ctx := context.Background()
	issuer := uuid.New()

	t.Run("already redeemed", func(t *testing.T) {
		f := newGiftCardFixture()
		card := sentCard(issuer, 20)
		card.Status = entities.GiftCardStatusRedeemed
		f.giftCardRepo.On("GetByToken", mock.Anything, "tok").Return(card, nil)

		_, err := f.uc.Redeem(ctx, &entities.RedeemGiftCardInput{
			Token: "tok", InvitedEmail: "bea@example.com", Password: "s3cret-pass", InvitedName: "Bea",
		})
		require.ErrorIs(t, err, domainerrors.ErrAlreadyRedeemed)
	})

	t.Run("cancelled", func(t *testing.T) {
		f := newGiftCardFixture()
		card := sentCard(issuer, 20)
		card.Status = entities.GiftCardStatusCancelled
		f.giftCardRepo.On("GetByToken", mock.Anything, "tok").Return(card, nil)

		_, err := f.uc.Redeem(ctx, &entities.RedeemGiftCardInput{
			Token: "tok", InvitedEmail: "bea@example.com", Password: "s3cret-pass", InvitedName: "Bea",
		})
		require.ErrorIs(t, err, domainerrors.ErrInvalidStateTransition)
	})

	t.Run("past expiry", func(t *testing.T) {
		f := newGiftCardFixture()
		card := sentCard(issuer, 20)
		card.ExpiresAt = time.Now().Add(-time.Hour)
		f.giftCardRepo.On("GetByToken", mock.Anything, "tok").Return(card, nil)

		_, err := f.uc.Redeem(ctx, &entities.RedeemGiftCardInput{
			Token: "tok", InvitedEmail: "bea@example.com", Password: "s3cret-pass", InvitedName: "Bea",
		})
		require.ErrorIs(t, err, domainerrors.ErrInvalidStateTransition)
	})

	t.Run("email mismatch", func(t *testing.T) {
		f := newGiftCardFixture()
		card := sentCard(issuer, 20)
		f.giftCardRepo.On("GetByToken", mock.Anything, "tok").Return(card, nil)

		_, err := f.uc.Redeem(ctx, &entities.RedeemGiftCardInput{
			Token: "tok", InvitedEmail: "other@example.com", Password: "s3cret-pass", InvitedName: "Bea",
		})
		require.ErrorIs(t, err, domainerrors.ErrEmailMismatch)
	})

	t.Run("duplicate account", func(t *testing.T) {
		f := newGiftCardFixture()
		card := sentCard(issuer, 20)
		f.giftCardRepo.On("GetByToken", mock.Anything, "tok").Return(card, nil)
		f.userRepo.On("ExistsByEmail", mock.Anything, "bea@example.com").Return(true, nil)

		_, err := f.uc.Redeem(ctx, &entities.RedeemGiftCardInput{
			Token: "tok", InvitedEmail: "bea@example.com", Password: "s3cret-pass", InvitedName: "Bea",
		})
		require.ErrorIs(t, err, domainerrors.ErrDuplicateAccount)
		f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newGiftCardFixture()
		f.giftCardRepo.On("GetByToken", mock.Anything, "nope").Return(nil, domainerrors.ErrNotFound)

		_, err := f.uc.Redeem(ctx, &entities.RedeemGiftCardInput{
			Token: "nope", InvitedEmail: "bea@example.com", Password: "s3cret-pass", InvitedName: "Bea",
		})
		require.ErrorIs(t, err, domainerrors.ErrNotFound)
	})
}

func TestRedeem_LosesGuardRace(t *testing.T) {
	f := newGiftCardFixture()
	ctx := context.Background()

	card := sentCard(uuid.New(), 20)

	f.giftCardRepo.On("GetByToken", mock.Anything, "tok").Return(card, nil)
	f.userRepo.On("ExistsByEmail", mock.Anything, "bea@example.com").Return(false, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.walletRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.promoRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	// Another redemption won between the read and the guarded update.
	f.giftCardRepo.On("TransitionStatus", mock.Anything, card.ID,
		entities.GiftCardStatusSent, entities.GiftCardStatusRedeemed, mock.Anything, mock.Anything).Return(false, nil)

	_, err := f.uc.Redeem(ctx, &entities.RedeemGiftCardInput{
		Token: "tok", InvitedEmail: "bea@example.com", Password: "s3cret-pass", InvitedName: "Bea",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidStateTransition)
	f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCancel_RefundsIssuer(t *testing.T) {
	f := newGiftCardFixture()
	ctx := context.Background()

	issuer := uuid.New()
	card := sentCard(issuer, 20)
	wallet := &entities.Wallet{UserID: issuer, Balance: decimal.NewFromInt(80), CreditLimit: decimal.NewFromInt(50)}

	f.giftCardRepo.On("GetByID", mock.Anything, card.ID).Return(card, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.giftCardRepo.On("TransitionStatus", mock.Anything, card.ID,
		entities.GiftCardStatusSent, entities.GiftCardStatusCancelled, (*uuid.UUID)(nil), (*time.Time)(nil)).Return(true, nil)
	f.walletRepo.On("GetForUpdate", mock.Anything, issuer).Return(wallet, nil)
	f.walletRepo.On("UpdateBalance", mock.Anything, issuer, decimalEq(decimal.NewFromInt(100))).Return(nil)
	var reversal *entities.Transaction
	f.txRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		reversal = args.Get(1).(*entities.Transaction)
	}).Return(nil)
	f.outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.uc.Cancel(ctx, card.ID, issuer))

	require.NotNil(t, reversal)
	require.Nil(t, reversal.FromUserID)
	require.Equal(t, &issuer, reversal.ToUserID)
	require.Equal(t, entities.TransactionTypeGiftCardReversal, reversal.Type)
	f.walletRepo.AssertExpectations(t)
}

func TestCancel_Rejections(t *testing.T) {
	ctx := context.Background()
	issuer := uuid.New()

	t.Run("not the issuer", func(t *testing.T) {
		f := newGiftCardFixture()
		card := sentCard(issuer, 20)
		f.giftCardRepo.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		err := f.uc.Cancel(ctx, card.ID, uuid.New())
		require.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	t.Run("already redeemed", func(t *testing.T) {
		f := newGiftCardFixture()
		card := sentCard(issuer, 20)
		card.Status = entities.GiftCardStatusRedeemed
		f.giftCardRepo.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		err := f.uc.Cancel(ctx, card.ID, issuer)
		require.ErrorIs(t, err, domainerrors.ErrInvalidStateTransition)
	})
}

func TestExpireOverdue_RefundsAndSkipsGuardLosers(t *testing.T) {
	f := newGiftCardFixture()
	ctx := context.Background()

	issuer := uuid.New()
	cardA := sentCard(issuer, 10)
	cardB := sentCard(issuer, 15)
	wallet := &entities.Wallet{UserID: issuer, Balance: decimal.NewFromInt(0), CreditLimit: decimal.NewFromInt(50)}

	f.giftCardRepo.On("GetExpiredSent", mock.Anything, mock.Anything, 100).
		Return([]*entities.GiftCard{cardA, cardB}, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	// Card A expires normally; card B was redeemed in the meantime.
	f.giftCardRepo.On("TransitionStatus", mock.Anything, cardA.ID,
		entities.GiftCardStatusSent, entities.GiftCardStatusExpired, (*uuid.UUID)(nil), (*time.Time)(nil)).Return(true, nil)
	f.giftCardRepo.On("TransitionStatus", mock.Anything, cardB.ID,
		entities.GiftCardStatusSent, entities.GiftCardStatusExpired, (*uuid.UUID)(nil), (*time.Time)(nil)).Return(false, nil)
	f.walletRepo.On("GetForUpdate", mock.Anything, issuer).Return(wallet, nil)
	f.walletRepo.On("UpdateBalance", mock.Anything, issuer, decimalEq(decimal.NewFromInt(10))).Return(nil)
	f.txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	expired, err := f.uc.ExpireOverdue(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, 1, expired)

	// Only card A produced a refund.
	f.txRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestListByIssuer_EmptyIsNotNil(t *testing.T) {
	f := newGiftCardFixture()
	ctx := context.Background()
	issuer := uuid.New()

	f.giftCardRepo.On("GetByIssuerID", mock.Anything, issuer).Return(nil, nil)

	cards, err := f.uc.ListByIssuer(ctx, issuer)
	require.NoError(t, err)
	require.NotNil(t, cards)
	require.Empty(t, cards)
}
