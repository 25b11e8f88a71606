package services

import (
	"context"
	"testing"

	"github.com/ausverity/ausverity-api/internal/authz"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestUserService_FindByID_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewUserService(repo, nil)

	_, err := service.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_UpdateProfile_OnlySelfOrAdmin(t *testing.T) {
	repo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, FullName: "Jane Citizen"}, nil
		},
	}
	service := NewUserService(repo, nil)

	actor := authz.Actor{UserID: 8, Role: models.RoleClient}
	_, err := service.UpdateProfile(context.Background(), actor, 7, "New Name", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	hash, err := HashPassword("correct-password")
	assert.NoError(t, err)

	repo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, EncryptedPassword: hash}, nil
		},
	}
	service := NewUserService(repo, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleClient}
	err = service.ChangePassword(context.Background(), actor, 7, "wrong-password", "new-password-123")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestUserService_ChangePassword_SelfOnly(t *testing.T) {
	repo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}
	service := NewUserService(repo, nil)

	// Even an admin cannot change someone else's password
	actor := authz.Actor{UserID: 1, Role: models.RoleAdmin}
	err := service.ChangePassword(context.Background(), actor, 7, "whatever", "new-password-123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_ChangeRole_RequiresAdmin(t *testing.T) {
	service := NewUserService(nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	_, err := service.ChangeRole(context.Background(), actor, 7, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_ChangeRole_UnknownRole(t *testing.T) {
	service := NewUserService(nil, nil)

	actor := authz.Actor{UserID: 1, Role: models.RoleAdmin}
	_, err := service.ChangeRole(context.Background(), actor, 7, "paralegal")
	assert.ErrorIs(t, err, ErrValidation)
}
