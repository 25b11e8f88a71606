package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ausverity/ausverity-api/internal/authz"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

type mockReviewRepo struct {
	repository.ReviewRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Review, error)
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	return m.mockFindByID(ctx, id)
}

func validComment() string {
	return strings.Repeat("very helpful advice ", 3)
}

func TestReviewService_Submit_RequiresClientRole(t *testing.T) {
	service := NewReviewService(nil, nil, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	_, err := service.Submit(context.Background(), actor, models.EntityTypeLawyer, 3, 5, validComment())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestReviewService_Submit_RatingOutOfRange(t *testing.T) {
	service := NewReviewService(nil, nil, nil, nil, nil, nil, nil)
	actor := authz.Actor{UserID: 4, Role: models.RoleClient}

	_, err := service.Submit(context.Background(), actor, models.EntityTypeLawyer, 3, 0, validComment())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Submit(context.Background(), actor, models.EntityTypeLawyer, 3, 6, validComment())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReviewService_Submit_CommentTooShort(t *testing.T) {
	service := NewReviewService(nil, nil, nil, nil, nil, nil, nil)
	actor := authz.Actor{UserID: 4, Role: models.RoleClient}

	_, err := service.Submit(context.Background(), actor, models.EntityTypeLawyer, 3, 5, "too short")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReviewService_Submit_UnpublishedTargetHidden(t *testing.T) {
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7, Status: models.ProfileStatusDraft}, nil
		},
	}
	service := NewReviewService(nil, lawyerRepo, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 4, Role: models.RoleClient}
	_, err := service.Submit(context.Background(), actor, models.EntityTypeLawyer, 3, 5, validComment())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_Submit_SelfReviewBlocked(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			return &models.LawFirm{ID: id, OwnerID: 4, Status: models.ProfileStatusPublished}, nil
		},
	}
	service := NewReviewService(nil, nil, firmRepo, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 4, Role: models.RoleClient}
	_, err := service.Submit(context.Background(), actor, models.EntityTypeFirm, 9, 5, validComment())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "your own firm")
}

func TestReviewService_Approve_RequiresAdmin(t *testing.T) {
	service := NewReviewService(nil, nil, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 5, Role: models.RoleFirmOwner}
	_, err := service.Approve(context.Background(), actor, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestReviewService_Approve_AlreadyModerated(t *testing.T) {
	repo := &mockReviewRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Review, error) {
			return &models.Review{ID: id, Status: models.ReviewStatusApproved}, nil
		},
	}
	service := NewReviewService(repo, nil, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 1, Role: models.RoleAdmin}
	_, err := service.Approve(context.Background(), actor, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReviewService_Respond_TooShort(t *testing.T) {
	service := NewReviewService(nil, nil, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	_, err := service.Respond(context.Background(), actor, 1, "thanks")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReviewService_Respond_OnlyApprovedReviews(t *testing.T) {
	repo := &mockReviewRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Review, error) {
			return &models.Review{ID: id, Status: models.ReviewStatusPending}, nil
		},
	}
	service := NewReviewService(repo, nil, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	_, err := service.Respond(context.Background(), actor, 1, validComment())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReviewService_Respond_OnlyProfileOwner(t *testing.T) {
	lawyerID := uint(3)
	repo := &mockReviewRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Review, error) {
			return &models.Review{ID: id, Status: models.ReviewStatusApproved, LawyerID: &lawyerID}, nil
		},
	}
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7}, nil
		},
	}
	service := NewReviewService(repo, lawyerRepo, nil, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 8, Role: models.RoleLawyer}
	_, err := service.Respond(context.Background(), actor, 1, validComment())
	assert.ErrorIs(t, err, ErrUnauthorized)
}
