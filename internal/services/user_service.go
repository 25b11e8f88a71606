package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ausverity/ausverity-api/internal/authz"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/ausverity/ausverity-api/pkg/logger"
	"gorm.io/gorm"
)

// UserService handles account management
type UserService struct {
	repo     repository.UserRepository
	auditSvc *AuditService
}

func NewUserService(repo repository.UserRepository, auditSvc *AuditService) *UserService {
	return &UserService{repo: repo, auditSvc: auditSvc}
}

// FindByID gets a user by ID
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns users for the admin console
func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

// UpdateProfile updates the account's contact details
func (s *UserService) UpdateProfile(ctx context.Context, actor authz.Actor, userID uint, fullName, phone string) (*models.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != user.ID && !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	if fullName != "" {
		user.FullName = fullName
	}
	if phone != "" {
		user.Phone = phone
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password and sets a new one
func (s *UserService) ChangePassword(ctx context.Context, actor authz.Actor, userID uint, currentPassword, newPassword string) error {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if actor.UserID != user.ID {
		return ErrUnauthorized
	}

	if !VerifyPassword(currentPassword, user.EncryptedPassword) {
		return ErrInvalidPassword
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hash
	return s.repo.Update(ctx, user)
}

// ChangeRole moves a user to a new role. Admin only; the change is audited.
func (s *UserService) ChangeRole(ctx context.Context, actor authz.Actor, userID uint, role string) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	switch role {
	case models.RoleAdmin, models.RoleLawyer, models.RoleFirmOwner, models.RoleLawyerFirmOwner, models.RoleClient:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous := user.Role
	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.auditSvc.Log(ctx, actor.UserID, models.AuditActionChangeUserRole, "User", user.ID,
		fmt.Sprintf("Role changed from %s to %s", previous, role), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", models.AuditActionChangeUserRole, "error", err)
	}

	return user, nil
}

// SetStatus activates, deactivates or suspends an account. Admin only.
func (s *UserService) SetStatus(ctx context.Context, actor authz.Actor, userID uint, status string) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusSuspended:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
