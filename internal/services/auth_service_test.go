package services

import (
	"context"
	"testing"

	"github.com/ausverity/ausverity-api/internal/config"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByEmail           func(ctx context.Context, email string) (*models.User, error)
	mockFindByEmailWithLawyer func(ctx context.Context, email string) (*models.User, error)
	mockFindByID              func(ctx context.Context, id uint) (*models.User, error)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockUserRepo) FindByEmailWithLawyer(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmailWithLawyer(ctx, email)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

type mockRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockCreate      func(ctx context.Context, rt *models.RefreshToken) error
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRefreshTokenRepo) Create(ctx context.Context, rt *models.RefreshToken) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, rt)
	}
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret"}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewAuthService(userRepo, nil, nil, nil, nil, nil, testAuthConfig())

	result, err := service.Login(context.Background(), "nobody@example.com", "password123")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{Email: email, Status: models.StatusInactive}, nil
		},
	}
	service := NewAuthService(userRepo, nil, nil, nil, nil, nil, testAuthConfig())

	result, err := service.Login(context.Background(), "inactive@example.com", "password123")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "inactive or suspended")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	assert.NoError(t, err)

	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				Email:             email,
				EncryptedPassword: hash,
				Status:            models.StatusActive,
			}, nil
		},
	}
	service := NewAuthService(userRepo, nil, nil, nil, nil, nil, testAuthConfig())

	result, err := service.Login(context.Background(), "user@example.com", "wrong-password")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Login_Success(t *testing.T) {
	hash, err := HashPassword("correct-password")
	assert.NoError(t, err)

	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:                42,
				Email:             email,
				EncryptedPassword: hash,
				Role:              models.RoleClient,
				Status:            models.StatusActive,
			}, nil
		},
	}
	var storedToken *models.RefreshToken
	rtRepo := &mockRefreshTokenRepo{
		mockCreate: func(ctx context.Context, rt *models.RefreshToken) error {
			storedToken = rt
			return nil
		},
	}
	service := NewAuthService(userRepo, rtRepo, nil, nil, nil, nil, testAuthConfig())

	result, err := service.Login(context.Background(), "user@example.com", "correct-password")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, uint(42), result.User.ID)
	assert.NotNil(t, storedToken)
	assert.Equal(t, uint(42), storedToken.UserID)
}

func TestAuthService_RefreshToken_InactiveUser(t *testing.T) {
	rtRepo := &mockRefreshTokenRepo{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{UserID: 1}, nil
		},
	}
	userRepo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Status: models.StatusInactive}, nil
		},
	}
	service := NewAuthService(userRepo, rtRepo, nil, nil, nil, nil, testAuthConfig())

	result, err := service.RefreshToken(context.Background(), "token")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Register_PasswordTooShort(t *testing.T) {
	service := NewAuthService(nil, nil, nil, nil, nil, nil, testAuthConfig())

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Register_UnknownRole(t *testing.T) {
	service := NewAuthService(nil, nil, nil, nil, nil, nil, testAuthConfig())

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "password123",
		Role:     "paralegal",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{Email: email}, nil
		},
	}
	service := NewAuthService(userRepo, nil, nil, nil, nil, nil, testAuthConfig())

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestHashPassword_Roundtrip(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-passphrase", hash)

	assert.True(t, VerifyPassword("s3cret-passphrase", hash))
	assert.False(t, VerifyPassword("other-passphrase", hash))
}
