package repository

import (
	"context"

	"github.com/ausverity/ausverity-api/internal/models"
	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	List(ctx context.Context, query *ListQuery) ([]models.Review, int64, error)
	FindApprovedForEntity(ctx context.Context, entityType string, entityID uint) ([]models.Review, error)
	Summary(ctx context.Context, entityType string, entityID uint) (*models.RatingSummary, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Lawyer").
		Preload("Firm").
		Preload("Client").
		First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) List(ctx context.Context, query *ListQuery) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Review{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}
	if lawyerID := query.Filters["lawyer_id"]; lawyerID != "" {
		db = db.Where("lawyer_id = ?", lawyerID)
	}
	if firmID := query.Filters["firm_id"]; firmID != "" {
		db = db.Where("firm_id = ?", firmID)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Lawyer").
		Preload("Firm").
		Preload("Client").
		Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepository) FindApprovedForEntity(ctx context.Context, entityType string, entityID uint) ([]models.Review, error) {
	var reviews []models.Review
	db := r.db.WithContext(ctx).Where("status = ?", models.ReviewStatusApproved)
	if entityType == models.EntityTypeLawyer {
		db = db.Where("lawyer_id = ?", entityID)
	} else {
		db = db.Where("firm_id = ?", entityID)
	}
	err := db.Preload("Client").Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Summary(ctx context.Context, entityType string, entityID uint) (*models.RatingSummary, error) {
	summary := &models.RatingSummary{}

	db := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("status = ?", models.ReviewStatusApproved)
	if entityType == models.EntityTypeLawyer {
		db = db.Where("lawyer_id = ?", entityID)
	} else {
		db = db.Where("firm_id = ?", entityID)
	}

	err := db.
		Select("COALESCE(AVG(rating), 0) as average_rating, COUNT(*) as review_count").
		Scan(summary).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}
