package repository

import (
	"context"

	"github.com/ausverity/ausverity-api/internal/models"
	"gorm.io/gorm"
)

// PendingChangeRepository defines the interface for pending change data access
type PendingChangeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.PendingChange, error)
	FindByIDWithEntity(ctx context.Context, id uint) (*models.PendingChange, error)
	FindPendingForEntity(ctx context.Context, entityType string, entityID uint) (*models.PendingChange, error)
	Create(ctx context.Context, change *models.PendingChange) error
	Update(ctx context.Context, change *models.PendingChange) error
	List(ctx context.Context, query *ListQuery) ([]models.PendingChange, int64, error)
	GetStats(ctx context.Context) (*ChangeStats, error)
}

type pendingChangeRepository struct {
	db *gorm.DB
}

// NewPendingChangeRepository creates a new pending change repository
func NewPendingChangeRepository(db *gorm.DB) PendingChangeRepository {
	return &pendingChangeRepository{db: db}
}

func (r *pendingChangeRepository) FindByID(ctx context.Context, id uint) (*models.PendingChange, error) {
	var change models.PendingChange
	err := r.db.WithContext(ctx).First(&change, id).Error
	if err != nil {
		return nil, err
	}
	return &change, nil
}

func (r *pendingChangeRepository) FindByIDWithEntity(ctx context.Context, id uint) (*models.PendingChange, error) {
	var change models.PendingChange
	err := r.db.WithContext(ctx).
		Preload("Lawyer").
		Preload("Firm").
		Preload("Submitter").
		First(&change, id).Error
	if err != nil {
		return nil, err
	}
	return &change, nil
}

func (r *pendingChangeRepository) FindPendingForEntity(ctx context.Context, entityType string, entityID uint) (*models.PendingChange, error) {
	var change models.PendingChange
	db := r.db.WithContext(ctx).Where("entity_type = ? AND status = ?", entityType, models.ChangeStatusPending)
	if entityType == models.EntityTypeLawyer {
		db = db.Where("lawyer_id = ?", entityID)
	} else {
		db = db.Where("firm_id = ?", entityID)
	}
	err := db.First(&change).Error
	if err != nil {
		return nil, err
	}
	return &change, nil
}

func (r *pendingChangeRepository) Create(ctx context.Context, change *models.PendingChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

func (r *pendingChangeRepository) Update(ctx context.Context, change *models.PendingChange) error {
	return r.db.WithContext(ctx).Save(change).Error
}

func (r *pendingChangeRepository) List(ctx context.Context, query *ListQuery) ([]models.PendingChange, int64, error) {
	var changes []models.PendingChange
	var total int64

	db := r.db.WithContext(ctx).Model(&models.PendingChange{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}
	if entityType := query.Filters["entity_type"]; entityType != "" {
		db = db.Where("entity_type = ?", entityType)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("created_at ASC") // oldest submissions reviewed first

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Lawyer").
		Preload("Firm").
		Preload("Submitter").
		Find(&changes).Error
	return changes, total, err
}

// ChangeStats holds the count of pending changes by status
type ChangeStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func (r *pendingChangeRepository) GetStats(ctx context.Context) (*ChangeStats, error) {
	stats := &ChangeStats{}

	rows, err := r.db.WithContext(ctx).
		Model(&models.PendingChange{}).
		Select("status, count(*) as count").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var total int64
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		total += count
		switch status {
		case models.ChangeStatusPending:
			stats.Pending = count
		case models.ChangeStatusApproved:
			stats.Approved = count
		case models.ChangeStatusRejected:
			stats.Rejected = count
		}
	}
	stats.Total = total

	return stats, nil
}
