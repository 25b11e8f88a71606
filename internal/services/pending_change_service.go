package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ausverity/ausverity-api/internal/authz"
	"github.com/ausverity/ausverity-api/internal/jobs"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/ausverity/ausverity-api/internal/statemachine"
	"github.com/ausverity/ausverity-api/pkg/logger"
	"gorm.io/gorm"
)

// PendingChangeService mediates between the canonical profile records and
// proposed edits awaiting admin approval. Edits are sparse patches; the live
// profile is only touched inside the approval transaction.
type PendingChangeService struct {
	db              *gorm.DB
	repo            repository.PendingChangeRepository
	lawyerRepo      repository.LawyerRepository
	firmRepo        repository.FirmRepository
	slugSvc         *SlugService
	auditSvc        *AuditService
	notificationSvc *NotificationService
	worker          *jobs.Worker
}

func NewPendingChangeService(
	db *gorm.DB,
	repo repository.PendingChangeRepository,
	lawyerRepo repository.LawyerRepository,
	firmRepo repository.FirmRepository,
	slugSvc *SlugService,
	auditSvc *AuditService,
	notificationSvc *NotificationService,
	worker *jobs.Worker,
) *PendingChangeService {
	return &PendingChangeService{
		db:              db,
		repo:            repo,
		lawyerRepo:      lawyerRepo,
		firmRepo:        firmRepo,
		slugSvc:         slugSvc,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
		worker:          worker,
	}
}

// FindByID gets a pending change by ID with the target entity preloaded
func (s *PendingChangeService) FindByID(ctx context.Context, id uint) (*models.PendingChange, error) {
	change, err := s.repo.FindByIDWithEntity(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return change, nil
}

// List returns pending changes for the admin review queue
func (s *PendingChangeService) List(ctx context.Context, query *repository.ListQuery) ([]models.PendingChange, int64, error) {
	return s.repo.List(ctx, query)
}

// GetStats returns change counts by status
func (s *PendingChangeService) GetStats(ctx context.Context) (*repository.ChangeStats, error) {
	return s.repo.GetStats(ctx)
}

// Submit stores a proposed edit for the given entity. If a pending change
// already exists for the entity its content is replaced in place (draft
// autosave), otherwise a new pending row is created. The live entity is not
// modified. After Submit returns, exactly one pending change exists for the
// entity and it holds the caller's latest patch.
func (s *PendingChangeService) Submit(ctx context.Context, actor authz.Actor, entityType string, entityID uint, rawPatch json.RawMessage) (*models.PendingChange, error) {
	changes, ownerUserID, err := s.validatePatch(ctx, entityType, entityID, rawPatch)
	if err != nil {
		return nil, err
	}

	switch entityType {
	case models.EntityTypeLawyer:
		if !authz.CanActForLawyer(actor, ownerUserID) {
			return nil, ErrUnauthorized
		}
	case models.EntityTypeFirm:
		if !authz.CanActForFirm(actor, ownerUserID) {
			return nil, ErrUnauthorized
		}
	}

	change, action, err := s.upsert(ctx, actor, entityType, entityID, changes)
	if err != nil {
		return nil, err
	}

	if err := s.auditSvc.Log(ctx, actor.UserID, action, "PendingChange", change.ID,
		fmt.Sprintf("Profile edit submitted for %s #%d", entityType, entityID), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", action, "error", err)
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Profile change awaiting review",
			fmt.Sprintf("A %s profile edit is waiting for moderation", entityType),
			models.NotificationTypeChangeSubmitted)
	})

	return change, nil
}

// upsert replaces an existing pending patch or creates a new one. The partial
// unique index on pending_changes closes the read-check-then-write race: a
// concurrent insert loses with a duplicated-key error and falls back to the
// update path.
func (s *PendingChangeService) upsert(ctx context.Context, actor authz.Actor, entityType string, entityID uint, changes string) (*models.PendingChange, string, error) {
	existing, err := s.repo.FindPendingForEntity(ctx, entityType, entityID)
	if err == nil {
		existing.Changes = changes
		existing.CreatedAt = time.Now()
		existing.SubmittedBy = actor.UserID
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, "", err
		}
		return existing, models.AuditActionUpdateChange, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	change := &models.PendingChange{
		EntityType:  entityType,
		Changes:     changes,
		Status:      models.ChangeStatusPending,
		SubmittedBy: actor.UserID,
	}
	if entityType == models.EntityTypeLawyer {
		change.LawyerID = &entityID
	} else {
		change.FirmID = &entityID
	}

	if err := s.repo.Create(ctx, change); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race; the winner's row is the one to update.
			return s.upsert(ctx, actor, entityType, entityID, changes)
		}
		return nil, "", err
	}
	return change, models.AuditActionSubmitChange, nil
}

// validatePatch decodes and validates the raw patch, returning the canonical
// changes document and the owning user id of the target entity.
func (s *PendingChangeService) validatePatch(ctx context.Context, entityType string, entityID uint, rawPatch json.RawMessage) (string, uint, error) {
	switch entityType {
	case models.EntityTypeLawyer:
		lawyer, err := s.lawyerRepo.FindByID(ctx, entityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", 0, ErrNotFound
			}
			return "", 0, err
		}
		patch, err := models.LawyerPatchFromChanges(string(rawPatch))
		if err != nil {
			return "", 0, fmt.Errorf("%w: malformed patch: %v", ErrValidation, err)
		}
		if patch.IsEmpty() {
			return "", 0, fmt.Errorf("%w: patch proposes no change", ErrValidation)
		}
		changes, err := json.Marshal(patch)
		if err != nil {
			return "", 0, err
		}
		return string(changes), lawyer.UserID, nil

	case models.EntityTypeFirm:
		firm, err := s.firmRepo.FindByID(ctx, entityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", 0, ErrNotFound
			}
			return "", 0, err
		}
		patch, err := models.FirmPatchFromChanges(string(rawPatch))
		if err != nil {
			return "", 0, fmt.Errorf("%w: malformed patch: %v", ErrValidation, err)
		}
		if patch.IsEmpty() {
			return "", 0, fmt.Errorf("%w: patch proposes no change", ErrValidation)
		}
		// A firm that has never published needs its identity fields on the
		// first submission.
		if firm.Name == "" && patch.Name == nil {
			return "", 0, fmt.Errorf("%w: firm name is required", ErrValidation)
		}
		if firm.Email == "" && patch.Email == nil {
			return "", 0, fmt.Errorf("%w: firm email is required", ErrValidation)
		}
		if firm.Phone == "" && patch.Phone == nil {
			return "", 0, fmt.Errorf("%w: firm phone is required", ErrValidation)
		}
		changes, err := json.Marshal(patch)
		if err != nil {
			return "", 0, err
		}
		return string(changes), firm.OwnerID, nil

	default:
		return "", 0, fmt.Errorf("%w: unknown entity type %q", ErrValidation, entityType)
	}
}

// PreviewLawyer returns the lawyer profile with the pending patch applied in
// memory. Nothing is mutated.
func (s *PendingChangeService) PreviewLawyer(ctx context.Context, actor authz.Actor, lawyerID uint) (*models.LawyerResponse, error) {
	lawyer, err := s.lawyerRepo.FindByIDWithDetails(ctx, lawyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanActForLawyer(actor, lawyer.UserID) {
		return nil, ErrUnauthorized
	}

	change, err := s.repo.FindPendingForEntity(ctx, models.EntityTypeLawyer, lawyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp := lawyer.ToResponse()
			return &resp, nil
		}
		return nil, err
	}

	patch, err := models.LawyerPatchFromChanges(change.Changes)
	if err != nil {
		return nil, err
	}
	patch.ApplyTo(lawyer)
	resp := lawyer.ToResponse()
	return &resp, nil
}

// PreviewFirm returns the firm profile with the pending patch applied in
// memory. Nothing is mutated.
func (s *PendingChangeService) PreviewFirm(ctx context.Context, actor authz.Actor, firmID uint) (*models.FirmResponse, error) {
	firm, err := s.firmRepo.FindByIDWithDetails(ctx, firmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanActForFirm(actor, firm.OwnerID) {
		return nil, ErrUnauthorized
	}

	change, err := s.repo.FindPendingForEntity(ctx, models.EntityTypeFirm, firmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp := firm.ToResponse()
			return &resp, nil
		}
		return nil, err
	}

	patch, err := models.FirmPatchFromChanges(change.Changes)
	if err != nil {
		return nil, err
	}
	patch.ApplyTo(firm)
	resp := firm.ToResponse()
	return &resp, nil
}

// Approve merges the patch into the live entity and marks the change
// approved. The entity merge and the status flip commit in one transaction;
// a crash or a concurrent decision can never leave one without the other.
func (s *PendingChangeService) Approve(ctx context.Context, changeID uint, actor authz.Actor, notes string) (*models.PendingChange, error) {
	if !authz.CanDecide(actor) {
		return nil, ErrUnauthorized
	}

	change, err := s.repo.FindByIDWithEntity(ctx, changeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fsm := statemachine.NewPendingChangeFSM(change)
	if err := fsm.Approve(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Optimistic status guard: only the first decider to observe the
		// pending row commits; concurrent losers see zero rows updated.
		res := tx.Model(&models.PendingChange{}).
			Where("id = ? AND status = ?", change.ID, models.ChangeStatusPending).
			Updates(map[string]interface{}{
				"status":       models.ChangeStatusApproved,
				"processed_at": now,
				"admin_notes":  notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}

		switch change.EntityType {
		case models.EntityTypeLawyer:
			return s.applyLawyerPatch(ctx, tx, change)
		case models.EntityTypeFirm:
			return s.applyFirmPatch(ctx, tx, change)
		default:
			return fmt.Errorf("unknown entity type %q", change.EntityType)
		}
	})
	if err != nil {
		return nil, err
	}

	change.Status = models.ChangeStatusApproved
	change.ProcessedAt = &now
	change.AdminNotes = &notes

	if err := s.auditSvc.Log(ctx, actor.UserID, models.AuditActionApproveChange, "PendingChange", change.ID,
		fmt.Sprintf("Change approved for %s #%d. Notes: %s", change.EntityType, change.EntityID(), notes), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", models.AuditActionApproveChange, "error", err)
	}

	s.notifyOwner(change, "Profile change approved",
		"Your profile edit has been approved and is now live", models.NotificationTypeChangeApproved)

	return change, nil
}

// Reject marks the change rejected without touching the live entity
func (s *PendingChangeService) Reject(ctx context.Context, changeID uint, actor authz.Actor, notes string) (*models.PendingChange, error) {
	if !authz.CanDecide(actor) {
		return nil, ErrUnauthorized
	}

	change, err := s.repo.FindByIDWithEntity(ctx, changeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fsm := statemachine.NewPendingChangeFSM(change)
	if err := fsm.Reject(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.PendingChange{}).
		Where("id = ? AND status = ?", change.ID, models.ChangeStatusPending).
		Updates(map[string]interface{}{
			"status":       models.ChangeStatusRejected,
			"processed_at": now,
			"admin_notes":  notes,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidState
	}

	change.Status = models.ChangeStatusRejected
	change.ProcessedAt = &now
	change.AdminNotes = &notes

	if err := s.auditSvc.Log(ctx, actor.UserID, models.AuditActionRejectChange, "PendingChange", change.ID,
		fmt.Sprintf("Change rejected for %s #%d. Notes: %s", change.EntityType, change.EntityID(), notes), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", models.AuditActionRejectChange, "error", err)
	}

	s.notifyOwner(change, "Profile change rejected",
		"Your profile edit was not approved: "+notes, models.NotificationTypeChangeRejected)

	return change, nil
}

// applyLawyerPatch merges the stored patch into the lawyer row and replaces
// any patched child collections wholesale. Runs inside the approval
// transaction.
func (s *PendingChangeService) applyLawyerPatch(ctx context.Context, tx *gorm.DB, change *models.PendingChange) error {
	patch, err := models.LawyerPatchFromChanges(change.Changes)
	if err != nil {
		return fmt.Errorf("stored patch is malformed: %w", err)
	}

	var lawyer models.Lawyer
	if err := tx.First(&lawyer, *change.LawyerID).Error; err != nil {
		return err
	}

	patch.ApplyTo(&lawyer)
	lawyer.Status = models.ProfileStatusPublished

	if patch.ChangesName() {
		slug, err := s.slugSvc.Generate(ctx, lawyer.FullName(), s.slugExistsExcluding(tx, "lawyers", lawyer.ID))
		if err != nil {
			return err
		}
		lawyer.Slug = slug
	}

	// Detach children before Save; replacements are written explicitly below
	practiceAreas := lawyer.PracticeAreas
	courtAppearances := lawyer.CourtAppearances
	languages := lawyer.Languages
	certifications := lawyer.Certifications
	lawyer.PracticeAreas = nil
	lawyer.CourtAppearances = nil
	lawyer.Languages = nil
	lawyer.Certifications = nil

	if err := tx.Save(&lawyer).Error; err != nil {
		return err
	}

	if patch.PracticeAreas != nil {
		if err := tx.Where("lawyer_id = ?", lawyer.ID).Delete(&models.PracticeArea{}).Error; err != nil {
			return err
		}
		if len(practiceAreas) > 0 {
			if err := tx.Create(&practiceAreas).Error; err != nil {
				return err
			}
		}
	}
	if patch.CourtAppearances != nil {
		if err := tx.Where("lawyer_id = ?", lawyer.ID).Delete(&models.CourtAppearance{}).Error; err != nil {
			return err
		}
		if len(courtAppearances) > 0 {
			if err := tx.Create(&courtAppearances).Error; err != nil {
				return err
			}
		}
	}
	if patch.Languages != nil {
		if err := tx.Where("lawyer_id = ?", lawyer.ID).Delete(&models.Language{}).Error; err != nil {
			return err
		}
		if len(languages) > 0 {
			if err := tx.Create(&languages).Error; err != nil {
				return err
			}
		}
	}
	if patch.Certifications != nil {
		if err := tx.Where("lawyer_id = ?", lawyer.ID).Delete(&models.Certification{}).Error; err != nil {
			return err
		}
		if len(certifications) > 0 {
			if err := tx.Create(&certifications).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// applyFirmPatch merges the stored patch into the firm row. Runs inside the
// approval transaction.
func (s *PendingChangeService) applyFirmPatch(ctx context.Context, tx *gorm.DB, change *models.PendingChange) error {
	patch, err := models.FirmPatchFromChanges(change.Changes)
	if err != nil {
		return fmt.Errorf("stored patch is malformed: %w", err)
	}

	var firm models.LawFirm
	if err := tx.First(&firm, *change.FirmID).Error; err != nil {
		return err
	}

	patch.ApplyTo(&firm)
	firm.Status = models.ProfileStatusPublished

	if patch.ChangesName() {
		slug, err := s.slugSvc.Generate(ctx, firm.Name, s.slugExistsExcluding(tx, "law_firms", firm.ID))
		if err != nil {
			return err
		}
		firm.Slug = slug
	}

	practiceAreas := firm.PracticeAreas
	firm.PracticeAreas = nil
	firm.Lawyers = nil

	if err := tx.Save(&firm).Error; err != nil {
		return err
	}

	if patch.PracticeAreas != nil {
		if err := tx.Where("firm_id = ?", firm.ID).Delete(&models.PracticeArea{}).Error; err != nil {
			return err
		}
		if len(practiceAreas) > 0 {
			if err := tx.Create(&practiceAreas).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// slugExistsExcluding builds a slug uniqueness check scoped to the approval
// transaction that ignores the entity's own row, so an unchanged display name
// keeps its slug.
func (s *PendingChangeService) slugExistsExcluding(tx *gorm.DB, table string, id uint) SlugExistsFunc {
	return func(ctx context.Context, slug string) (bool, error) {
		var count int64
		err := tx.Table(table).
			Where("slug = ? AND id <> ?", slug, id).
			Count(&count).Error
		return count > 0, err
	}
}

func (s *PendingChangeService) notifyOwner(change *models.PendingChange, title, message, notifType string) {
	var ownerUserID uint
	if change.Lawyer != nil {
		ownerUserID = change.Lawyer.UserID
	}
	if change.Firm != nil {
		ownerUserID = change.Firm.OwnerID
	}
	if ownerUserID == 0 {
		return
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, ownerUserID, title, message, notifType)
	})
}
