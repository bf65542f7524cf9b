package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"units-exchange.backend/internal/domain/entities"
	domainerrors "units-exchange.backend/internal/domain/errors"
	"units-exchange.backend/internal/domain/repositories"
	"units-exchange.backend/pkg/crypto"
	"units-exchange.backend/pkg/jwt"
	"units-exchange.backend/pkg/logger"
)

// AuthUsecase handles account registration and login. Session management
// beyond token issuance lives in the external auth service; this surface only
// exists because wallets are minted together with accounts.
type AuthUsecase struct {
	userRepo           repositories.UserRepository
	walletRepo         repositories.WalletRepository
	uow                repositories.UnitOfWork
	jwtService         *jwt.JWTService
	defaultCreditLimit decimal.Decimal
	neutralTrustScore  float64
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	walletRepo repositories.WalletRepository,
	uow repositories.UnitOfWork,
	jwtService *jwt.JWTService,
	defaultCreditLimit decimal.Decimal,
	neutralTrustScore float64,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:           userRepo,
		walletRepo:         walletRepo,
		uow:                uow,
		jwtService:         jwtService,
		defaultCreditLimit: defaultCreditLimit,
		neutralTrustScore:  neutralTrustScore,
	}
}

// Register creates a user account together with its wallet as one atomic unit
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, *entities.Wallet, error) {
	email := strings.ToLower(input.Email)

	if exists, err := u.userRepo.ExistsByEmail(ctx, email); err != nil {
		return nil, nil, err
	} else if exists {
		return nil, nil, domainerrors.ErrDuplicateAccount
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &entities.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: passwordHash,
		Role:         entities.UserRoleMember,
	}
	wallet := &entities.Wallet{
		Balance:     decimal.Zero,
		CreditLimit: u.defaultCreditLimit,
		TrustScore:  u.neutralTrustScore,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		wallet.UserID = user.ID
		return u.walletRepo.Create(txCtx, wallet)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "user registered", zap.String("user_id", user.ID.String()))
	return user, wallet, nil
}

// Login verifies credentials and issues a token pair
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.User, *jwt.TokenPair, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil, domainerrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, nil, domainerrors.ErrInvalidCredentials
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}
