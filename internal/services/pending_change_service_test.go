package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ausverity/ausverity-api/internal/authz"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockPendingChangeRepo struct {
	repository.PendingChangeRepository
	mockFindByIDWithEntity   func(ctx context.Context, id uint) (*models.PendingChange, error)
	mockFindPendingForEntity func(ctx context.Context, entityType string, entityID uint) (*models.PendingChange, error)
}

func (m *mockPendingChangeRepo) FindByIDWithEntity(ctx context.Context, id uint) (*models.PendingChange, error) {
	return m.mockFindByIDWithEntity(ctx, id)
}

func (m *mockPendingChangeRepo) FindPendingForEntity(ctx context.Context, entityType string, entityID uint) (*models.PendingChange, error) {
	return m.mockFindPendingForEntity(ctx, entityType, entityID)
}

type mockLawyerRepo struct {
	repository.LawyerRepository
	mockFindByID            func(ctx context.Context, id uint) (*models.Lawyer, error)
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.Lawyer, error)
}

func (m *mockLawyerRepo) FindByID(ctx context.Context, id uint) (*models.Lawyer, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockLawyerRepo) FindByIDWithDetails(ctx context.Context, id uint) (*models.Lawyer, error) {
	return m.mockFindByIDWithDetails(ctx, id)
}

type mockFirmRepo struct {
	repository.FirmRepository
	mockFindByID            func(ctx context.Context, id uint) (*models.LawFirm, error)
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.LawFirm, error)
}

func (m *mockFirmRepo) FindByID(ctx context.Context, id uint) (*models.LawFirm, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockFirmRepo) FindByIDWithDetails(ctx context.Context, id uint) (*models.LawFirm, error) {
	return m.mockFindByIDWithDetails(ctx, id)
}

func TestPendingChangeService_Submit_UnknownEntityType(t *testing.T) {
	service := NewPendingChangeService(nil, nil, nil, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 1, Role: models.RoleAdmin}
	_, err := service.Submit(context.Background(), actor, "paralegal", 1, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPendingChangeService_Submit_LawyerNotFound(t *testing.T) {
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewPendingChangeService(nil, nil, lawyerRepo, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 1, Role: models.RoleLawyer}
	_, err := service.Submit(context.Background(), actor, models.EntityTypeLawyer, 99, json.RawMessage(`{"phone":"0400000000"}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingChangeService_Submit_EmptyPatch(t *testing.T) {
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 1}, nil
		},
	}
	service := NewPendingChangeService(nil, nil, lawyerRepo, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 1, Role: models.RoleLawyer}
	_, err := service.Submit(context.Background(), actor, models.EntityTypeLawyer, 1, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPendingChangeService_Submit_MalformedPatch(t *testing.T) {
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 1}, nil
		},
	}
	service := NewPendingChangeService(nil, nil, lawyerRepo, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 1, Role: models.RoleLawyer}
	_, err := service.Submit(context.Background(), actor, models.EntityTypeLawyer, 1, json.RawMessage(`{not json`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPendingChangeService_Submit_NotProfileOwner(t *testing.T) {
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7}, nil
		},
	}
	service := NewPendingChangeService(nil, nil, lawyerRepo, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 8, Role: models.RoleLawyer}
	_, err := service.Submit(context.Background(), actor, models.EntityTypeLawyer, 1, json.RawMessage(`{"phone":"0400000000"}`))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPendingChangeService_Submit_FirstFirmSubmissionNeedsIdentity(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			// Never-published firm without identity fields
			return &models.LawFirm{ID: id, OwnerID: 5, Status: models.ProfileStatusDraft}, nil
		},
	}
	service := NewPendingChangeService(nil, nil, nil, firmRepo, nil, nil, nil, nil)
	actor := authz.Actor{UserID: 5, Role: models.RoleFirmOwner}

	_, err := service.Submit(context.Background(), actor, models.EntityTypeFirm, 1,
		json.RawMessage(`{"description":"A boutique commercial firm"}`))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "name is required")

	_, err = service.Submit(context.Background(), actor, models.EntityTypeFirm, 1,
		json.RawMessage(`{"name":"Smith & Co"}`))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "email is required")
}

func TestPendingChangeService_Approve_RequiresAdmin(t *testing.T) {
	service := NewPendingChangeService(nil, nil, nil, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	_, err := service.Approve(context.Background(), 1, actor, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPendingChangeService_Approve_AlreadyDecided(t *testing.T) {
	repo := &mockPendingChangeRepo{
		mockFindByIDWithEntity: func(ctx context.Context, id uint) (*models.PendingChange, error) {
			return &models.PendingChange{ID: id, Status: models.ChangeStatusApproved}, nil
		},
	}
	service := NewPendingChangeService(nil, repo, nil, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 1, Role: models.RoleAdmin}
	_, err := service.Approve(context.Background(), 1, actor, "looks good")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPendingChangeService_Reject_AlreadyDecided(t *testing.T) {
	repo := &mockPendingChangeRepo{
		mockFindByIDWithEntity: func(ctx context.Context, id uint) (*models.PendingChange, error) {
			return &models.PendingChange{ID: id, Status: models.ChangeStatusRejected}, nil
		},
	}
	service := NewPendingChangeService(nil, repo, nil, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 1, Role: models.RoleAdmin}
	_, err := service.Reject(context.Background(), 1, actor, "duplicate")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPendingChangeService_PreviewLawyer_AppliesPendingPatch(t *testing.T) {
	bio := "Original bio"
	lawyerRepo := &mockLawyerRepo{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{
				ID:        id,
				UserID:    7,
				FirstName: "Jane",
				LastName:  "Citizen",
				Phone:     "0400000000",
				Bio:       &bio,
				Status:    models.ProfileStatusPublished,
			}, nil
		},
	}
	lawyerID := uint(3)
	repo := &mockPendingChangeRepo{
		mockFindPendingForEntity: func(ctx context.Context, entityType string, entityID uint) (*models.PendingChange, error) {
			return &models.PendingChange{
				EntityType: models.EntityTypeLawyer,
				LawyerID:   &lawyerID,
				Changes:    `{"phone":"0411111111"}`,
				Status:     models.ChangeStatusPending,
			}, nil
		},
	}
	service := NewPendingChangeService(nil, repo, lawyerRepo, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	resp, err := service.PreviewLawyer(context.Background(), actor, lawyerID)
	assert.NoError(t, err)
	assert.Equal(t, "0411111111", resp.Phone)
	assert.Equal(t, "Jane", resp.FirstName)
	assert.Equal(t, "Original bio", *resp.Bio)
}

func TestPendingChangeService_PreviewLawyer_NoPendingReturnsLive(t *testing.T) {
	lawyerRepo := &mockLawyerRepo{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7, Phone: "0400000000"}, nil
		},
	}
	repo := &mockPendingChangeRepo{
		mockFindPendingForEntity: func(ctx context.Context, entityType string, entityID uint) (*models.PendingChange, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewPendingChangeService(nil, repo, lawyerRepo, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	resp, err := service.PreviewLawyer(context.Background(), actor, 3)
	assert.NoError(t, err)
	assert.Equal(t, "0400000000", resp.Phone)
}

func TestPendingChangeService_PreviewFirm_NotOwner(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			return &models.LawFirm{ID: id, OwnerID: 5}, nil
		},
	}
	service := NewPendingChangeService(nil, nil, nil, firmRepo, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 6, Role: models.RoleFirmOwner}
	_, err := service.PreviewFirm(context.Background(), actor, 9)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
