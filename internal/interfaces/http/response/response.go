package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "units-exchange.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Domain sentinel errors and AppErrors map to
// their stable code and status; anything else becomes an opaque internal
// error so storage-layer details never cross the public interface.
func Error(c *gin.Context, err error) {
	appErr := toAppError(err)
	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

func toAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domainerrors.ErrNotFound),
		errors.Is(err, domainerrors.ErrWalletNotFound):
		return domainerrors.NotFound(err.Error())
	case errors.Is(err, domainerrors.ErrInvalidAmount),
		errors.Is(err, domainerrors.ErrInvalidLimit),
		errors.Is(err, domainerrors.ErrSelfTransfer),
		errors.Is(err, domainerrors.ErrInvalidInput),
		errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest(err.Error())
	case errors.Is(err, domainerrors.ErrInsufficientCredit):
		return domainerrors.InsufficientCredit(err.Error())
	case errors.Is(err, domainerrors.ErrInsufficientBalance):
		return domainerrors.InsufficientBalance(err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyRedeemed),
		errors.Is(err, domainerrors.ErrInvalidStateTransition):
		return domainerrors.InvalidState(err.Error())
	case errors.Is(err, domainerrors.ErrEmailMismatch):
		return domainerrors.Forbidden(err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateAccount):
		return domainerrors.DuplicateAccount(err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateRating),
		errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict(err.Error())
	case errors.Is(err, domainerrors.ErrConcurrencyConflict):
		return domainerrors.ConcurrencyConflict(err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCredentials),
		errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized(err.Error())
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden(err.Error())
	}

	return domainerrors.InternalError(err)
}
