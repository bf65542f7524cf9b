package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
)

func seedGiftCard(t *testing.T, repo *GiftCardRepository, issuerID uuid.UUID, token string, status entities.GiftCardStatus, amount int64, expiresAt time.Time) *entities.GiftCard {
	t.Helper()
	card := &entities.GiftCard{
		IssuerID:     issuerID,
		InvitedName:  "Invitee",
		InvitedEmail: "invitee@example.com",
		UnitsAmount:  decimal.NewFromInt(amount),
		Token:        token,
		Status:       status,
		ExpiresAt:    expiresAt,
	}
	require.NoError(t, repo.Create(context.Background(), card))
	return card
}

func TestGiftCardRepository_CreateAndLookups(t *testing.T) {
	db := newTestDB(t)
	createGiftCardTable(t, db)
	repo := NewGiftCardRepository(db)
	ctx := context.Background()

	issuer := uuid.New()
	card := seedGiftCard(t, repo, issuer, "tok-1", entities.GiftCardStatusSent, 20, time.Now().Add(24*time.Hour))

	got, err := repo.GetByID(ctx, card.ID)
	require.NoError(t, err)
	require.Equal(t, issuer, got.IssuerID)
	require.True(t, got.UnitsAmount.Equal(decimal.NewFromInt(20)))

	byToken, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, card.ID, byToken.ID)

	_, err = repo.GetByToken(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	list, err := repo.GetByIssuerID(ctx, issuer)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestGiftCardRepository_TransitionStatus_Guarded(t *testing.T) {
	db := newTestDB(t)
	createGiftCardTable(t, db)
	repo := NewGiftCardRepository(db)
	ctx := context.Background()

	card := seedGiftCard(t, repo, uuid.New(), "tok-2", entities.GiftCardStatusSent, 20, time.Now().Add(24*time.Hour))

	redeemer := uuid.New()
	now := time.Now()
	ok, err := repo.TransitionStatus(ctx, card.ID, entities.GiftCardStatusSent, entities.GiftCardStatusRedeemed, &redeemer, &now)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(ctx, card.ID)
	require.NoError(t, err)
	require.Equal(t, entities.GiftCardStatusRedeemed, got.Status)
	require.NotNil(t, got.RedeemedByID)
	require.Equal(t, redeemer, *got.RedeemedByID)
	require.NotNil(t, got.RedeemedAt)

	// Second transition loses the guard: the card is no longer SENT.
	ok, err = repo.TransitionStatus(ctx, card.ID, entities.GiftCardStatusSent, entities.GiftCardStatusCancelled, nil, nil)
	require.NoError(t, err)
	require.False(t, ok)

	got, err = repo.GetByID(ctx, card.ID)
	require.NoError(t, err)
	require.Equal(t, entities.GiftCardStatusRedeemed, got.Status)
}

func TestGiftCardRepository_GetExpiredSent(t *testing.T) {
	db := newTestDB(t)
	createGiftCardTable(t, db)
	repo := NewGiftCardRepository(db)
	ctx := context.Background()

	issuer := uuid.New()
	now := time.Now()
	expired := seedGiftCard(t, repo, issuer, "tok-old", entities.GiftCardStatusSent, 10, now.Add(-time.Hour))
	seedGiftCard(t, repo, issuer, "tok-live", entities.GiftCardStatusSent, 10, now.Add(time.Hour))
	seedGiftCard(t, repo, issuer, "tok-done", entities.GiftCardStatusRedeemed, 10, now.Add(-time.Hour))

	cards, err := repo.GetExpiredSent(ctx, now, 100)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, expired.ID, cards[0].ID)
}

func TestGiftCardRepository_Stats(t *testing.T) {
	db := newTestDB(t)
	createGiftCardTable(t, db)
	repo := NewGiftCardRepository(db)
	ctx := context.Background()

	issuer := uuid.New()
	other := uuid.New()
	expiry := time.Now().Add(24 * time.Hour)

	seedGiftCard(t, repo, issuer, "s-1", entities.GiftCardStatusRedeemed, 20, expiry)
	seedGiftCard(t, repo, issuer, "s-2", entities.GiftCardStatusRedeemed, 30, expiry)
	seedGiftCard(t, repo, issuer, "s-3", entities.GiftCardStatusCancelled, 15, expiry)
	seedGiftCard(t, repo, issuer, "s-4", entities.GiftCardStatusSent, 10, expiry)
	seedGiftCard(t, repo, other, "s-5", entities.GiftCardStatusExpired, 40, expiry)

	stats, err := repo.Stats(ctx, nil)
	require.NoError(t, err)
	require.EqualValues(t, 5, stats.Issued)
	require.EqualValues(t, 2, stats.Redeemed)
	require.EqualValues(t, 1, stats.Cancelled)
	require.EqualValues(t, 1, stats.Expired)
	require.True(t, stats.TotalDistributed.Equal(decimal.NewFromInt(50)), "got %s", stats.TotalDistributed)
	require.InDelta(t, 0.4, stats.ConversionRate, 1e-9)

	// Filter by issuer.
	filtered, err := repo.Stats(ctx, &entities.GiftCardStatsFilter{IssuerID: &issuer})
	require.NoError(t, err)
	require.EqualValues(t, 4, filtered.Issued)
	require.EqualValues(t, 0, filtered.Expired)

	// Empty result set keeps zero values.
	nobody := uuid.New()
	empty, err := repo.Stats(ctx, &entities.GiftCardStatsFilter{IssuerID: &nobody})
	require.NoError(t, err)
	require.EqualValues(t, 0, empty.Issued)
	require.Equal(t, 0.0, empty.ConversionRate)
	require.True(t, empty.TotalDistributed.IsZero())
}

func TestPromoTokenRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	createPromoTokenTable(t, db)
	repo := NewPromoTokenRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	token := &entities.PromoToken{
		UserID:     userID,
		GiftCardID: uuid.New(),
		Amount:     decimal.NewFromInt(20),
		ExpiresAt:  time.Now().Add(365 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, token))
	require.NotEqual(t, uuid.Nil, token.ID)

	list, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Amount.Equal(decimal.NewFromInt(20)))
}
