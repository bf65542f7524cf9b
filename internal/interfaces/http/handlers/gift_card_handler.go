package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
	"units-exchange.backend/internal/interfaces/http/response"
	"units-exchange.backend/internal/usecases"
)

type giftCardService interface {
	Issue(ctx context.Context, input *entities.IssueGiftCardInput) (*entities.GiftCard, error)
	Redeem(ctx context.Context, input *entities.RedeemGiftCardInput) (*entities.RedeemResult, error)
	Cancel(ctx context.Context, cardID, issuerID uuid.UUID) error
	Stats(ctx context.Context, filter *entities.GiftCardStatsFilter) (*entities.GiftCardStats, error)
	ListByIssuer(ctx context.Context, issuerID uuid.UUID) ([]*entities.GiftCard, error)
}

// GiftCardHandler handles invitation gift card endpoints
type GiftCardHandler struct {
	giftCardUsecase giftCardService
}

// NewGiftCardHandler creates a new gift card handler
func NewGiftCardHandler(giftCardUsecase *usecases.GiftCardUsecase) *GiftCardHandler {
	return &GiftCardHandler{giftCardUsecase: giftCardUsecase}
}

// Issue creates a pre-funded gift card and debits the issuer
// POST /api/v1/gift-cards
func (h *GiftCardHandler) Issue(c *gin.Context) {
	var input entities.IssueGiftCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	card, err := h.giftCardUsecase.Issue(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"giftCard": card})
}

// Redeem provisions an account from a gift card token
// POST /api/v1/gift-cards/redeem
func (h *GiftCardHandler) Redeem(c *gin.Context) {
	var input entities.RedeemGiftCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.giftCardUsecase.Redeem(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":     result.User,
		"wallet":   result.Wallet,
		"giftCard": result.GiftCard,
	})
}

// Cancel voids an unredeemed gift card and refunds the issuer
// DELETE /api/v1/gift-cards/:id
func (h *GiftCardHandler) Cancel(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid gift card ID"))
		return
	}

	issuerID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	if err := h.giftCardUsecase.Cancel(c.Request.Context(), cardID, issuerID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

// Stats returns the gift card funnel aggregation
// GET /api/v1/gift-cards/stats
func (h *GiftCardHandler) Stats(c *gin.Context) {
	var filter entities.GiftCardStatsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	stats, err := h.giftCardUsecase.Stats(c.Request.Context(), &filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// List returns the gift cards issued by a user
// GET /api/v1/gift-cards?issuerId=
func (h *GiftCardHandler) List(c *gin.Context) {
	issuerID, err := uuid.Parse(c.Query("issuerId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid issuer ID"))
		return
	}

	cards, err := h.giftCardUsecase.ListByIssuer(c.Request.Context(), issuerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"giftCards": cards})
}
