package repository

import (
	"context"

	"github.com/ausverity/ausverity-api/internal/models"
	"gorm.io/gorm"
)

// FirmRepository defines the interface for law firm data access
type FirmRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LawFirm, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.LawFirm, error)
	FindByOwnerID(ctx context.Context, ownerID uint) (*models.LawFirm, error)
	FindBySlug(ctx context.Context, slug string) (*models.LawFirm, error)
	Create(ctx context.Context, firm *models.LawFirm) error
	Update(ctx context.Context, firm *models.LawFirm) error
	List(ctx context.Context, query *ListQuery) ([]models.LawFirm, int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type firmRepository struct {
	db *gorm.DB
}

// NewFirmRepository creates a new firm repository
func NewFirmRepository(db *gorm.DB) FirmRepository {
	return &firmRepository{db: db}
}

func (r *firmRepository) FindByID(ctx context.Context, id uint) (*models.LawFirm, error) {
	var firm models.LawFirm
	err := r.db.WithContext(ctx).First(&firm, id).Error
	if err != nil {
		return nil, err
	}
	return &firm, nil
}

func (r *firmRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.LawFirm, error) {
	var firm models.LawFirm
	err := r.db.WithContext(ctx).
		Preload("PracticeAreas").
		Preload("Lawyers", func(db *gorm.DB) *gorm.DB {
			return db.Order("last_name ASC")
		}).
		Preload("Lawyers.PracticeAreas").
		First(&firm, id).Error
	if err != nil {
		return nil, err
	}
	return &firm, nil
}

func (r *firmRepository) FindByOwnerID(ctx context.Context, ownerID uint) (*models.LawFirm, error) {
	var firm models.LawFirm
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&firm).Error
	if err != nil {
		return nil, err
	}
	return &firm, nil
}

func (r *firmRepository) FindBySlug(ctx context.Context, slug string) (*models.LawFirm, error) {
	var firm models.LawFirm
	err := r.db.WithContext(ctx).
		Preload("PracticeAreas").
		Preload("Lawyers", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.ProfileStatusPublished).Order("last_name ASC")
		}).
		Preload("Lawyers.PracticeAreas").
		Where("slug = ?", slug).
		First(&firm).Error
	if err != nil {
		return nil, err
	}
	return &firm, nil
}

func (r *firmRepository) Create(ctx context.Context, firm *models.LawFirm) error {
	return r.db.WithContext(ctx).Create(firm).Error
}

func (r *firmRepository) Update(ctx context.Context, firm *models.LawFirm) error {
	return r.db.WithContext(ctx).Save(firm).Error
}

func (r *firmRepository) List(ctx context.Context, query *ListQuery) ([]models.LawFirm, int64, error) {
	var firms []models.LawFirm
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LawFirm{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("law_firms.status = ?", status)
	} else {
		db = db.Where("law_firms.status = ?", models.ProfileStatusPublished)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("law_firms.name ILIKE ? OR law_firms.address ILIKE ? OR law_firms.description ILIKE ?",
			search, search, search)
	}

	if area := query.Filters["practice_area"]; area != "" {
		db = db.Joins("JOIN practice_areas ON practice_areas.firm_id = law_firms.id").
			Where("practice_areas.name ILIKE ?", area)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Distinct("law_firms.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "law_firms." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("law_firms.name ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Distinct("law_firms.*").
		Preload("PracticeAreas").
		Find(&firms).Error
	return firms, total, err
}

func (r *firmRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LawFirm{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
