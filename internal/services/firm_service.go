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

// FirmService handles law firm profiles and their public directory view
type FirmService struct {
	repo       repository.FirmRepository
	lawyerRepo repository.LawyerRepository
	reviewRepo repository.ReviewRepository
	slugSvc    *SlugService
}

func NewFirmService(repo repository.FirmRepository, lawyerRepo repository.LawyerRepository, reviewRepo repository.ReviewRepository, slugSvc *SlugService) *FirmService {
	return &FirmService{repo: repo, lawyerRepo: lawyerRepo, reviewRepo: reviewRepo, slugSvc: slugSvc}
}

// CreateProfile creates a draft firm owned by the given user. A user owns at
// most one firm.
func (s *FirmService) CreateProfile(ctx context.Context, owner *models.User, name string) (*models.LawFirm, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: firm name is required", ErrValidation)
	}

	if _, err := s.repo.FindByOwnerID(ctx, owner.ID); err == nil {
		return nil, fmt.Errorf("%w: user already owns a firm", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slug, err := s.slugSvc.Generate(ctx, name, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	firm := &models.LawFirm{
		OwnerID: owner.ID,
		Slug:    slug,
		Name:    name,
		Email:   owner.Email,
		Status:  models.ProfileStatusDraft,
	}
	if err := s.repo.Create(ctx, firm); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already owns a firm", ErrConflict)
		}
		return nil, err
	}
	return firm, nil
}

// FindByID gets a firm with all profile details loaded
func (s *FirmService) FindByID(ctx context.Context, id uint) (*models.LawFirm, error) {
	firm, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return firm, nil
}

// FindByOwner gets the firm owned by a user account
func (s *FirmService) FindByOwner(ctx context.Context, ownerID uint) (*models.LawFirm, error) {
	firm, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return firm, nil
}

// GetPublicProfile returns a published firm by slug with its rating summary
// and published team members.
func (s *FirmService) GetPublicProfile(ctx context.Context, slug string) (*models.FirmResponse, error) {
	firm, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if firm.Status != models.ProfileStatusPublished {
		return nil, ErrNotFound
	}

	resp := firm.ToResponse()
	summary, err := s.reviewRepo.Summary(ctx, models.EntityTypeFirm, firm.ID)
	if err != nil {
		return nil, err
	}
	resp.AverageRating = summary.AverageRating
	resp.ReviewCount = summary.ReviewCount
	return &resp, nil
}

// Search lists published firms for the public directory
func (s *FirmService) Search(ctx context.Context, query *repository.ListQuery) ([]models.FirmResponse, int64, error) {
	firms, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]models.FirmResponse, 0, len(firms))
	for i := range firms {
		resp := firms[i].ToResponse()
		summary, err := s.reviewRepo.Summary(ctx, models.EntityTypeFirm, firms[i].ID)
		if err == nil {
			resp.AverageRating = summary.AverageRating
			resp.ReviewCount = summary.ReviewCount
		}
		responses = append(responses, resp)
	}
	return responses, total, nil
}

// Members lists the lawyers currently affiliated with a firm
func (s *FirmService) Members(ctx context.Context, firmID uint) ([]models.Lawyer, error) {
	if _, err := s.repo.FindByID(ctx, firmID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.lawyerRepo.FindByFirm(ctx, firmID)
}

// GetDashboard returns the owner's view of their firm, including unpublished
// state.
func (s *FirmService) GetDashboard(ctx context.Context, actor authz.Actor, firmID uint) (*models.LawFirm, error) {
	firm, err := s.repo.FindByIDWithDetails(ctx, firmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanActForFirm(actor, firm.OwnerID) {
		return nil, ErrUnauthorized
	}
	return firm, nil
}
