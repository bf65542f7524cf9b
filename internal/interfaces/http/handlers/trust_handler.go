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

type trustService interface {
	RateUser(ctx context.Context, input *entities.RateUserInput) (*entities.TrustRating, error)
	ComputeScore(ctx context.Context, userID uuid.UUID) (*entities.TrustScore, error)
	ListRatings(ctx context.Context, userID uuid.UUID) ([]*entities.TrustRating, error)
}

// TrustHandler handles trust score endpoints
type TrustHandler struct {
	trustUsecase trustService
}

// NewTrustHandler creates a new trust handler
func NewTrustHandler(trustUsecase *usecases.TrustUsecase) *TrustHandler {
	return &TrustHandler{trustUsecase: trustUsecase}
}

// GetScore returns the aggregate trust score for a user
// GET /api/v1/trust/:userId
func (h *TrustHandler) GetScore(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	score, err := h.trustUsecase.ComputeScore(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"trustScore": score})
}

// Rate records a peer rating after an exchange
// POST /api/v1/trust/rate
func (h *TrustHandler) Rate(c *gin.Context) {
	var input entities.RateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	rating, err := h.trustUsecase.RateUser(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"rating": rating})
}

// ListRatings returns the ratings received by a user
// GET /api/v1/trust/:userId/ratings
func (h *TrustHandler) ListRatings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	ratings, err := h.trustUsecase.ListRatings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ratings": ratings})
}
