package services

import (
	"context"

	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"gorm.io/gorm"
)

// AuditService records state-changing actions. Writes are best-effort: a
// failed audit insert is logged by the caller and never rolls back the
// primary transition.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log records an audit entry
func (s *AuditService) Log(ctx context.Context, userID uint, action, entity string, entityID uint, details, ip, userAgent string) error {
	logEntry := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	return s.db.WithContext(ctx).Create(logEntry).Error
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	db := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if action := query.Filters["action"]; action != "" {
		db = db.Where("action = ?", action)
	}
	if entity := query.Filters["entity"]; entity != "" {
		db = db.Where("entity = ?", entity)
	}
	if userID := query.Filters["user_id"]; userID != "" {
		db = db.Where("user_id = ?", userID)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Preload("User").Order("created_at desc")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	result := db.Find(&logs)
	return logs, total, result.Error
}
