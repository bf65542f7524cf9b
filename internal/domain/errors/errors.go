package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrBadRequest             = errors.New("bad request")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidLimit           = errors.New("credit limit must be non-negative")
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrInsufficientCredit     = errors.New("transfer would exceed credit limit")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrSelfTransfer           = errors.New("cannot transfer to own wallet")
	ErrInvalidStateTransition = errors.New("invalid gift card state transition")
	ErrAlreadyRedeemed        = errors.New("gift card already redeemed")
	ErrEmailMismatch          = errors.New("email does not match invitation")
	ErrDuplicateAccount       = errors.New("account with this email already exists")
	ErrDuplicateRating        = errors.New("transaction already rated for this counterpart")
	ErrConcurrencyConflict    = errors.New("concurrent update conflict, retry the request")
)

// Stable error codes surfaced on the public interface
const (
	CodeValidation          = "ERR_VALIDATION"
	CodeNotFound            = "ERR_NOT_FOUND"
	CodeUnauthorized        = "ERR_UNAUTHORIZED"
	CodeForbidden           = "ERR_FORBIDDEN"
	CodeConflict            = "ERR_CONFLICT"
	CodeInsufficientCredit  = "ERR_INSUFFICIENT_CREDIT"
	CodeInsufficientBalance = "ERR_INSUFFICIENT_BALANCE"
	CodeInvalidState        = "ERR_INVALID_STATE"
	CodeDuplicateAccount    = "ERR_DUPLICATE_ACCOUNT"
	CodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	CodeInternalError       = "ERR_INTERNAL"
)

// AppError represents an application error with an HTTP status and a stable
// machine-readable code
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InsufficientCredit(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeInsufficientCredit, message, ErrInsufficientCredit)
}

func InsufficientBalance(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeInsufficientBalance, message, ErrInsufficientBalance)
}

func InvalidState(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeInvalidState, message, ErrInvalidStateTransition)
}

func DuplicateAccount(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeDuplicateAccount, message, ErrDuplicateAccount)
}

func ConcurrencyConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConcurrencyConflict, message, ErrConcurrencyConflict)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}
