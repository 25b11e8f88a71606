package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
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

// MembershipService manages the lawyer-firm relationship lifecycle:
// invitations, accept/decline, leaving and removal. Every ended affiliation
// leaves a relationship history row, written in the same transaction that
// clears or switches the lawyer's firm.
type MembershipService struct {
	db              *gorm.DB
	invitationRepo  repository.InvitationRepository
	historyRepo     repository.RelationshipHistoryRepository
	lawyerRepo      repository.LawyerRepository
	firmRepo        repository.FirmRepository
	userRepo        repository.UserRepository
	auditSvc        *AuditService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	worker          *jobs.Worker
	invitationTTL   time.Duration
}

func NewMembershipService(
	db *gorm.DB,
	invitationRepo repository.InvitationRepository,
	historyRepo repository.RelationshipHistoryRepository,
	lawyerRepo repository.LawyerRepository,
	firmRepo repository.FirmRepository,
	userRepo repository.UserRepository,
	auditSvc *AuditService,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	worker *jobs.Worker,
	invitationTTL time.Duration,
) *MembershipService {
	return &MembershipService{
		db:              db,
		invitationRepo:  invitationRepo,
		historyRepo:     historyRepo,
		lawyerRepo:      lawyerRepo,
		firmRepo:        firmRepo,
		userRepo:        userRepo,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		worker:          worker,
		invitationTTL:   invitationTTL,
	}
}

// Invite creates a pending invitation from a firm to the lawyer registered
// under the given email. A lawyer affiliated elsewhere may still be invited;
// the switch happens on accept. Fails with ErrConflict when the lawyer is
// already a member of this firm or a pending invitation for the pair exists.
func (s *MembershipService) Invite(ctx context.Context, actor authz.Actor, firmID uint, lawyerEmail string) (*models.FirmInvitation, error) {
	firm, err := s.firmRepo.FindByID(ctx, firmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanActForFirm(actor, firm.OwnerID) {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.FindByEmailWithLawyer(ctx, lawyerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no account registered for %s", ErrNotFound, lawyerEmail)
		}
		return nil, err
	}
	if user.Lawyer == nil {
		return nil, fmt.Errorf("%w: %s has no lawyer profile", ErrNotFound, lawyerEmail)
	}
	lawyer := user.Lawyer
	if lawyer.FirmID != nil && *lawyer.FirmID == firmID {
		return nil, fmt.Errorf("%w: lawyer is already a member of this firm", ErrConflict)
	}

	if existing, err := s.invitationRepo.FindPendingByFirmAndLawyer(ctx, firmID, lawyer.ID); err == nil {
		// A stale pending invitation does not block a new invite.
		if !existing.IsExpired() {
			return nil, fmt.Errorf("%w: a pending invitation already exists", ErrConflict)
		}
		s.expireInvitation(ctx, existing)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, err
	}

	invitation := &models.FirmInvitation{
		FirmID:    firmID,
		LawyerID:  lawyer.ID,
		InvitedBy: actor.UserID,
		Token:     token,
		Status:    models.InvitationStatusPending,
		ExpiresAt: time.Now().Add(s.invitationTTL),
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a pending invitation already exists", ErrConflict)
		}
		return nil, err
	}
	invitation.Firm = *firm
	invitation.Lawyer = *lawyer

	if err := s.auditSvc.Log(ctx, actor.UserID, models.AuditActionInviteLawyer, "FirmInvitation", invitation.ID,
		fmt.Sprintf("%s invited %s to join", firm.Name, lawyer.FullName()), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", models.AuditActionInviteLawyer, "error", err)
	}

	firmName := firm.Name
	lawyerUserID := lawyer.UserID
	contactEmail := lawyer.Email
	lawyerName := lawyer.FullName()
	expiresAt := invitation.ExpiresAt
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.notificationSvc.NotifyUser(ctx, lawyerUserID,
			"Firm invitation received",
			fmt.Sprintf("%s has invited you to join their firm", firmName),
			models.NotificationTypeInvitationReceived); err != nil {
			return err
		}
		return s.emailSvc.SendInvitationEmail(ctx, contactEmail, lawyerName, firmName, expiresAt)
	})

	return invitation, nil
}

// Accept joins the lawyer to the inviting firm. If the lawyer is switching
// firms, the closing history interval for the old firm commits in the same
// transaction as the firm change.
func (s *MembershipService) Accept(ctx context.Context, actor authz.Actor, invitationID uint) (*models.FirmInvitation, error) {
	invitation, lawyer, err := s.loadForResponse(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}

	ifsm := statemachine.NewInvitationFSM(invitation)
	if err := ifsm.Accept(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.FirmInvitation{}).
			Where("id = ? AND status = ?", invitation.ID, models.InvitationStatusPending).
			Update("status", models.InvitationStatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}

		// History before mutation: if the transaction rolls back, neither the
		// old interval nor the new firm assignment survives.
		if closesAffiliation(lawyer, invitation.FirmID) {
			history := &models.RelationshipHistory{
				LawyerID:  lawyer.ID,
				FirmID:    *lawyer.FirmID,
				StartDate: lawyer.UpdatedAt,
				EndDate:   now,
			}
			if err := tx.Create(history).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Lawyer{}).
			Where("id = ?", lawyer.ID).
			Update("firm_id", invitation.FirmID).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.auditSvc.Log(ctx, actor.UserID, models.AuditActionAcceptInvitation, "FirmInvitation", invitation.ID,
		fmt.Sprintf("%s joined %s", invitation.Lawyer.FullName(), invitation.Firm.Name), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", models.AuditActionAcceptInvitation, "error", err)
	}

	inviterID := invitation.InvitedBy
	lawyerName := invitation.Lawyer.FullName()
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, inviterID,
			"Invitation accepted",
			fmt.Sprintf("%s has accepted your invitation", lawyerName),
			models.NotificationTypeInvitationAccepted)
	})

	return invitation, nil
}

// Decline closes the invitation without joining the firm
func (s *MembershipService) Decline(ctx context.Context, actor authz.Actor, invitationID uint) (*models.FirmInvitation, error) {
	invitation, _, err := s.loadForResponse(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}

	ifsm := statemachine.NewInvitationFSM(invitation)
	if err := ifsm.Decline(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	rows, err := s.invitationRepo.UpdateStatus(ctx, invitation.ID,
		models.InvitationStatusPending, models.InvitationStatusDeclined)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidState
	}

	if err := s.auditSvc.Log(ctx, actor.UserID, models.AuditActionDeclineInvitation, "FirmInvitation", invitation.ID,
		fmt.Sprintf("%s declined to join %s", invitation.Lawyer.FullName(), invitation.Firm.Name), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", models.AuditActionDeclineInvitation, "error", err)
	}

	inviterID := invitation.InvitedBy
	lawyerName := invitation.Lawyer.FullName()
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, inviterID,
			"Invitation declined",
			fmt.Sprintf("%s has declined your invitation", lawyerName),
			models.NotificationTypeInvitationDeclined)
	})

	return invitation, nil
}

// loadForResponse loads an invitation for an accept or decline, verifies the
// actor is the invited lawyer and flips a stale pending invitation to expired
// before any state check.
func (s *MembershipService) loadForResponse(ctx context.Context, actor authz.Actor, invitationID uint) (*models.FirmInvitation, *models.Lawyer, error) {
	invitation, err := s.invitationRepo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	lawyer, err := s.lawyerRepo.FindByID(ctx, invitation.LawyerID)
	if err != nil {
		return nil, nil, err
	}
	if !authz.CanActForLawyer(actor, lawyer.UserID) {
		return nil, nil, ErrUnauthorized
	}

	if invitation.Status == models.InvitationStatusPending && invitation.IsExpired() {
		s.expireInvitation(ctx, invitation)
		return nil, nil, fmt.Errorf("%w: invitation expired on %s", ErrExpired, invitation.ExpiresAt.Format(time.RFC3339))
	}

	return invitation, lawyer, nil
}

// closesAffiliation reports whether joining firmID ends a current affiliation
// with a different firm. Joining the firm the lawyer already belongs to opens
// no history interval.
func closesAffiliation(lawyer *models.Lawyer, firmID uint) bool {
	return lawyer.FirmID != nil && *lawyer.FirmID != firmID
}

// expireInvitation persists the lazy pending → expired flip. Best effort: the
// read that observed the expiry still succeeds if the write-back fails.
func (s *MembershipService) expireInvitation(ctx context.Context, invitation *models.FirmInvitation) {
	ifsm := statemachine.NewInvitationFSM(invitation)
	if err := ifsm.Expire(ctx); err != nil {
		return
	}
	if _, err := s.invitationRepo.UpdateStatus(ctx, invitation.ID,
		models.InvitationStatusPending, models.InvitationStatusExpired); err != nil {
		logger.Error("Failed to persist invitation expiry", "invitation_id", invitation.ID, "error", err)
	}
}

// ListForLawyer returns a lawyer's invitations, expiring stale pending ones
// on the way out.
func (s *MembershipService) ListForLawyer(ctx context.Context, actor authz.Actor, lawyerID uint) ([]models.FirmInvitation, error) {
	lawyer, err := s.lawyerRepo.FindByID(ctx, lawyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanActForLawyer(actor, lawyer.UserID) {
		return nil, ErrUnauthorized
	}

	invitations, err := s.invitationRepo.FindByLawyer(ctx, lawyerID)
	if err != nil {
		return nil, err
	}
	s.expireStale(ctx, invitations)
	return invitations, nil
}

// ListForFirm returns a firm's outbound invitations, expiring stale pending
// ones on the way out.
func (s *MembershipService) ListForFirm(ctx context.Context, actor authz.Actor, firmID uint) ([]models.FirmInvitation, error) {
	firm, err := s.firmRepo.FindByID(ctx, firmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanActForFirm(actor, firm.OwnerID) {
		return nil, ErrUnauthorized
	}

	invitations, err := s.invitationRepo.FindByFirm(ctx, firmID)
	if err != nil {
		return nil, err
	}
	s.expireStale(ctx, invitations)
	return invitations, nil
}

func (s *MembershipService) expireStale(ctx context.Context, invitations []models.FirmInvitation) {
	for i := range invitations {
		if invitations[i].Status == models.InvitationStatusPending && invitations[i].IsExpired() {
			s.expireInvitation(ctx, &invitations[i])
		}
	}
}

// Leave ends the lawyer's current affiliation at their own request
func (s *MembershipService) Leave(ctx context.Context, actor authz.Actor, lawyerID uint) error {
	lawyer, err := s.lawyerRepo.FindByID(ctx, lawyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !authz.CanActForLawyer(actor, lawyer.UserID) {
		return ErrUnauthorized
	}
	if lawyer.FirmID == nil {
		return fmt.Errorf("%w: lawyer is not affiliated with a firm", ErrInvalidState)
	}

	firmID := *lawyer.FirmID
	if err := s.endAffiliation(ctx, lawyer); err != nil {
		return err
	}

	if err := s.auditSvc.Log(ctx, actor.UserID, models.AuditActionLeaveFirm, "Lawyer", lawyer.ID,
		fmt.Sprintf("%s left firm #%d", lawyer.FullName(), firmID), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", models.AuditActionLeaveFirm, "error", err)
	}

	s.notifyFirmOwner(ctx, firmID, "Team member left",
		fmt.Sprintf("%s has left your firm", lawyer.FullName()), models.NotificationTypeMemberLeft)

	return nil
}

// Remove ends a lawyer's affiliation at the firm's request
func (s *MembershipService) Remove(ctx context.Context, actor authz.Actor, firmID, lawyerID uint) error {
	firm, err := s.firmRepo.FindByID(ctx, firmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !authz.CanActForFirm(actor, firm.OwnerID) {
		return ErrUnauthorized
	}

	lawyer, err := s.lawyerRepo.FindByID(ctx, lawyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if lawyer.FirmID == nil || *lawyer.FirmID != firmID {
		return fmt.Errorf("%w: lawyer is not a member of this firm", ErrInvalidState)
	}

	if err := s.endAffiliation(ctx, lawyer); err != nil {
		return err
	}

	if err := s.auditSvc.Log(ctx, actor.UserID, models.AuditActionRemoveLawyer, "Lawyer", lawyer.ID,
		fmt.Sprintf("%s was removed from %s", lawyer.FullName(), firm.Name), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", models.AuditActionRemoveLawyer, "error", err)
	}

	lawyerUserID := lawyer.UserID
	firmName := firm.Name
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, lawyerUserID,
			"Removed from firm",
			fmt.Sprintf("You are no longer listed with %s", firmName),
			models.NotificationTypeMemberRemoved)
	})

	return nil
}

// endAffiliation writes the closing history interval and clears the lawyer's
// firm in one transaction. The history insert runs first so a failed commit
// leaves the affiliation fully intact.
func (s *MembershipService) endAffiliation(ctx context.Context, lawyer *models.Lawyer) error {
	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		history := &models.RelationshipHistory{
			LawyerID:  lawyer.ID,
			FirmID:    *lawyer.FirmID,
			StartDate: lawyer.UpdatedAt,
			EndDate:   now,
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Lawyer{}).
			Where("id = ? AND firm_id = ?", lawyer.ID, *lawyer.FirmID).
			Update("firm_id", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Affiliation changed underneath us; abort so the history row
			// does not record an interval that never closed here.
			return ErrInvalidState
		}
		return nil
	})
}

// HistoryForLawyer returns the lawyer's closed affiliation intervals
func (s *MembershipService) HistoryForLawyer(ctx context.Context, lawyerID uint) ([]models.RelationshipHistory, error) {
	return s.historyRepo.FindByLawyer(ctx, lawyerID)
}

// HistoryForFirm returns the firm's closed affiliation intervals
func (s *MembershipService) HistoryForFirm(ctx context.Context, firmID uint) ([]models.RelationshipHistory, error) {
	return s.historyRepo.FindByFirm(ctx, firmID)
}

func (s *MembershipService) notifyFirmOwner(ctx context.Context, firmID uint, title, message, notifType string) {
	firm, err := s.firmRepo.FindByID(ctx, firmID)
	if err != nil {
		return
	}
	ownerID := firm.OwnerID
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, ownerID, title, message, notifType)
	})
}

func generateInvitationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
