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
	"units-exchange.backend/pkg/jwt"
)

func newAuthFixture() (*usecases.AuthUsecase, *MockUserRepository, *MockWalletRepository, *MockUnitOfWork) {
	userRepo := new(MockUserRepository)
	walletRepo := new(MockWalletRepository)
	uow := new(MockUnitOfWork)
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)
	uc := usecases.NewAuthUsecase(userRepo, walletRepo, uow, jwtService, decimal.NewFromInt(50), 0.5)
	return uc, userRepo, walletRepo, uow
}

func TestRegister_CreatesUserAndWalletAtomically(t *testing.T) {
	uc, userRepo, walletRepo, uow := newAuthFixture()
	ctx := context.Background()

	userRepo.On("ExistsByEmail", mock.Anything, "carla@example.com").Return(false, nil)
	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	walletRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	user, wallet, err := uc.Register(ctx, &entities.RegisterInput{
		Name:     "Carla",
		Email:    "Carla@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, "carla@example.com", user.Email)
	require.Equal(t, entities.UserRoleMember, user.Role)
	require.True(t, crypto.CheckPassword("s3cret-pass", user.PasswordHash))

	// Fresh wallet: zero balance, default limit, neutral trust.
	require.Equal(t, user.ID, wallet.UserID)
	require.True(t, wallet.Balance.IsZero())
	require.True(t, wallet.CreditLimit.Equal(decimal.NewFromInt(50)))
	require.Equal(t, 0.5, wallet.TrustScore)

	uow.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	uc, userRepo, _, uow := newAuthFixture()
	ctx := context.Background()

	userRepo.On("ExistsByEmail", mock.Anything, "dup@example.com").Return(true, nil)

	_, _, err := uc.Register(ctx, &entities.RegisterInput{
		Name: "Dup", Email: "dup@example.com", Password: "s3cret-pass",
	})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateAccount)
	uow.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	uc, userRepo, _, _ := newAuthFixture()
	ctx := context.Background()

	hash, err := crypto.HashPassword("s3cret-pass")
	require.NoError(t, err)
	stored := &entities.User{
		ID:           uuid.New(),
		Email:        "carla@example.com",
		PasswordHash: hash,
		Role:         entities.UserRoleMember,
	}
	userRepo.On("GetByEmail", mock.Anything, "carla@example.com").Return(stored, nil)

	user, tokens, err := uc.Login(ctx, &entities.LoginInput{
		Email:    "Carla@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, stored.ID, user.ID)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	uc, userRepo, _, _ := newAuthFixture()
	ctx := context.Background()

	// Unknown email maps to the same error as a wrong password.
	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domainerrors.ErrNotFound)
	_, _, err := uc.Login(ctx, &entities.LoginInput{Email: "ghost@example.com", Password: "whatever-pass"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	hash, err := crypto.HashPassword("right-pass")
	require.NoError(t, err)
	userRepo.On("GetByEmail", mock.Anything, "carla@example.com").Return(&entities.User{
		ID: uuid.New(), Email: "carla@example.com", PasswordHash: hash,
	}, nil)
	_, _, err = uc.Login(ctx, &entities.LoginInput{Email: "carla@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}
