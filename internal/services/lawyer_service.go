package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ausverity/ausverity-api/internal/authz"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"gorm.io/gorm"
)

// LawyerService handles lawyer profiles and the public directory view of them
type LawyerService struct {
	repo       repository.LawyerRepository
	reviewRepo repository.ReviewRepository
	slugSvc    *SlugService
}

func NewLawyerService(repo repository.LawyerRepository, reviewRepo repository.ReviewRepository, slugSvc *SlugService) *LawyerService {
	return &LawyerService{repo: repo, reviewRepo: reviewRepo, slugSvc: slugSvc}
}

// CreateProfile creates a draft lawyer profile for a newly registered user.
// The profile stays out of the public directory until a first submission is
// approved.
func (s *LawyerService) CreateProfile(ctx context.Context, user *models.User, firstName, lastName string) (*models.Lawyer, error) {
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrValidation)
	}

	if _, err := s.repo.FindByUserID(ctx, user.ID); err == nil {
		return nil, fmt.Errorf("%w: user already has a lawyer profile", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slug, err := s.slugSvc.Generate(ctx, firstName+" "+lastName, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	lawyer := &models.Lawyer{
		UserID:    user.ID,
		Slug:      slug,
		FirstName: firstName,
		LastName:  lastName,
		Email:     user.Email,
		Status:    models.ProfileStatusDraft,
	}
	if err := s.repo.Create(ctx, lawyer); err != nil {
		return nil, err
	}
	return lawyer, nil
}

// FindByID gets a lawyer with all profile details loaded
func (s *LawyerService) FindByID(ctx context.Context, id uint) (*models.Lawyer, error) {
	lawyer, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lawyer, nil
}

// FindByUser gets the lawyer profile belonging to a user account
func (s *LawyerService) FindByUser(ctx context.Context, userID uint) (*models.Lawyer, error) {
	lawyer, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lawyer, nil
}

// GetPublicProfile returns a published lawyer by slug with the rating summary
// attached. Unpublished profiles are invisible to the public directory.
func (s *LawyerService) GetPublicProfile(ctx context.Context, slug string) (*models.LawyerResponse, error) {
	lawyer, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !lawyer.IsPublished() {
		return nil, ErrNotFound
	}

	resp := lawyer.ToResponse()
	summary, err := s.reviewRepo.Summary(ctx, models.EntityTypeLawyer, lawyer.ID)
	if err != nil {
		return nil, err
	}
	resp.AverageRating = summary.AverageRating
	resp.ReviewCount = summary.ReviewCount
	return &resp, nil
}

// Search lists published lawyers for the public directory
func (s *LawyerService) Search(ctx context.Context, query *repository.ListQuery) ([]models.LawyerResponse, int64, error) {
	lawyers, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]models.LawyerResponse, 0, len(lawyers))
	for i := range lawyers {
		resp := lawyers[i].ToResponse()
		summary, err := s.reviewRepo.Summary(ctx, models.EntityTypeLawyer, lawyers[i].ID)
		if err == nil {
			resp.AverageRating = summary.AverageRating
			resp.ReviewCount = summary.ReviewCount
		}
		responses = append(responses, resp)
	}
	return responses, total, nil
}

// GetDashboard returns the owner's view of their own profile, including
// unpublished state.
func (s *LawyerService) GetDashboard(ctx context.Context, actor authz.Actor, lawyerID uint) (*models.Lawyer, error) {
	lawyer, err := s.repo.FindByIDWithDetails(ctx, lawyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanActForLawyer(actor, lawyer.UserID) {
		return nil, ErrUnauthorized
	}
	return lawyer, nil
}
