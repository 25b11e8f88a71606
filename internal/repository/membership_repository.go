package repository

import (
	"context"

	"github.com/ausverity/ausverity-api/internal/models"
	"gorm.io/gorm"
)

// InvitationRepository defines the interface for firm invitation data access
type InvitationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.FirmInvitation, error)
	FindPendingByFirmAndLawyer(ctx context.Context, firmID, lawyerID uint) (*models.FirmInvitation, error)
	FindByLawyer(ctx context.Context, lawyerID uint) ([]models.FirmInvitation, error)
	FindByFirm(ctx context.Context, firmID uint) ([]models.FirmInvitation, error)
	Create(ctx context.Context, invitation *models.FirmInvitation) error
	UpdateStatus(ctx context.Context, id uint, from, to string) (int64, error)
}

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) FindByID(ctx context.Context, id uint) (*models.FirmInvitation, error) {
	var invitation models.FirmInvitation
	err := r.db.WithContext(ctx).
		Preload("Firm").
		Preload("Lawyer").
		Preload("Inviter").
		First(&invitation, id).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) FindPendingByFirmAndLawyer(ctx context.Context, firmID, lawyerID uint) (*models.FirmInvitation, error) {
	var invitation models.FirmInvitation
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND lawyer_id = ? AND status = ?", firmID, lawyerID, models.InvitationStatusPending).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) FindByLawyer(ctx context.Context, lawyerID uint) ([]models.FirmInvitation, error) {
	var invitations []models.FirmInvitation
	err := r.db.WithContext(ctx).
		Where("lawyer_id = ?", lawyerID).
		Preload("Firm").
		Preload("Lawyer").
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *invitationRepository) FindByFirm(ctx context.Context, firmID uint) ([]models.FirmInvitation, error) {
	var invitations []models.FirmInvitation
	err := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Preload("Firm").
		Preload("Lawyer").
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *invitationRepository) Create(ctx context.Context, invitation *models.FirmInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// UpdateStatus flips an invitation's status with an optimistic guard on the
// current value. Returns the number of rows changed; zero means the status
// moved underneath the caller.
func (r *invitationRepository) UpdateStatus(ctx context.Context, id uint, from, to string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.FirmInvitation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// RelationshipHistoryRepository defines the interface for affiliation history
// data access. History rows are append-only; there is no update or delete.
type RelationshipHistoryRepository interface {
	Create(ctx context.Context, history *models.RelationshipHistory) error
	FindByLawyer(ctx context.Context, lawyerID uint) ([]models.RelationshipHistory, error)
	FindByFirm(ctx context.Context, firmID uint) ([]models.RelationshipHistory, error)
}

type relationshipHistoryRepository struct {
	db *gorm.DB
}

// NewRelationshipHistoryRepository creates a new relationship history repository
func NewRelationshipHistoryRepository(db *gorm.DB) RelationshipHistoryRepository {
	return &relationshipHistoryRepository{db: db}
}

func (r *relationshipHistoryRepository) Create(ctx context.Context, history *models.RelationshipHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *relationshipHistoryRepository) FindByLawyer(ctx context.Context, lawyerID uint) ([]models.RelationshipHistory, error) {
	var histories []models.RelationshipHistory
	err := r.db.WithContext(ctx).
		Where("lawyer_id = ?", lawyerID).
		Preload("Firm").
		Order("end_date DESC").
		Find(&histories).Error
	return histories, err
}

func (r *relationshipHistoryRepository) FindByFirm(ctx context.Context, firmID uint) ([]models.RelationshipHistory, error) {
	var histories []models.RelationshipHistory
	err := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Order("end_date DESC").
		Find(&histories).Error
	return histories, err
}
