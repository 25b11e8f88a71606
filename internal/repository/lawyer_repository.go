package repository

import (
	"context"

	"github.com/ausverity/ausverity-api/internal/models"
	"gorm.io/gorm"
)

// LawyerRepository defines the interface for lawyer profile data access
type LawyerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Lawyer, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Lawyer, error)
	FindByUserID(ctx context.Context, userID uint) (*models.Lawyer, error)
	FindBySlug(ctx context.Context, slug string) (*models.Lawyer, error)
	FindByFirm(ctx context.Context, firmID uint) ([]models.Lawyer, error)
	Create(ctx context.Context, lawyer *models.Lawyer) error
	Update(ctx context.Context, lawyer *models.Lawyer) error
	List(ctx context.Context, query *ListQuery) ([]models.Lawyer, int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type lawyerRepository struct {
	db *gorm.DB
}

// NewLawyerRepository creates a new lawyer repository
func NewLawyerRepository(db *gorm.DB) LawyerRepository {
	return &lawyerRepository{db: db}
}

func (r *lawyerRepository) FindByID(ctx context.Context, id uint) (*models.Lawyer, error) {
	var lawyer models.Lawyer
	err := r.db.WithContext(ctx).First(&lawyer, id).Error
	if err != nil {
		return nil, err
	}
	return &lawyer, nil
}

func (r *lawyerRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Lawyer, error) {
	var lawyer models.Lawyer
	// Firm is belongs-to so a Join is cheap; the child collections stay as
	// Preloads (5 queries total instead of 6).
	err := r.db.WithContext(ctx).
		Joins("Firm").
		Preload("PracticeAreas").
		Preload("CourtAppearances").
		Preload("Languages").
		Preload("Certifications").
		First(&lawyer, id).Error
	if err != nil {
		return nil, err
	}
	return &lawyer, nil
}

func (r *lawyerRepository) FindByUserID(ctx context.Context, userID uint) (*models.Lawyer, error) {
	var lawyer models.Lawyer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&lawyer).Error
	if err != nil {
		return nil, err
	}
	return &lawyer, nil
}

func (r *lawyerRepository) FindBySlug(ctx context.Context, slug string) (*models.Lawyer, error) {
	var lawyer models.Lawyer
	err := r.db.WithContext(ctx).
		Joins("Firm").
		Preload("PracticeAreas").
		Preload("CourtAppearances").
		Preload("Languages").
		Preload("Certifications").
		Where("lawyers.slug = ?", slug).
		First(&lawyer).Error
	if err != nil {
		return nil, err
	}
	return &lawyer, nil
}

func (r *lawyerRepository) FindByFirm(ctx context.Context, firmID uint) ([]models.Lawyer, error) {
	var lawyers []models.Lawyer
	err := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Preload("PracticeAreas").
		Order("last_name ASC").
		Find(&lawyers).Error
	return lawyers, err
}

func (r *lawyerRepository) Create(ctx context.Context, lawyer *models.Lawyer) error {
	return r.db.WithContext(ctx).Create(lawyer).Error
}

func (r *lawyerRepository) Update(ctx context.Context, lawyer *models.Lawyer) error {
	return r.db.WithContext(ctx).Save(lawyer).Error
}

func (r *lawyerRepository) List(ctx context.Context, query *ListQuery) ([]models.Lawyer, int64, error) {
	var lawyers []models.Lawyer
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Lawyer{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("lawyers.status = ?", status)
	} else {
		db = db.Where("lawyers.status = ?", models.ProfileStatusPublished)
	}

	// JOINs only for filtering; associations loaded via Preload below
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("lawyers.first_name ILIKE ? OR lawyers.last_name ILIKE ? OR lawyers.bio ILIKE ?",
			search, search, search)
	}

	if area := query.Filters["practice_area"]; area != "" {
		db = db.Joins("JOIN practice_areas ON practice_areas.lawyer_id = lawyers.id").
			Where("practice_areas.name ILIKE ?", area)
	}

	if firmID := query.Filters["firm_id"]; firmID != "" {
		db = db.Where("lawyers.firm_id = ?", firmID)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Distinct("lawyers.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "lawyers." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("lawyers.last_name ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Distinct("lawyers.*").
		Preload("Firm").
		Preload("PracticeAreas").
		Preload("Languages").
		Find(&lawyers).Error
	return lawyers, total, err
}

func (r *lawyerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Lawyer{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
