package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ausverity/ausverity-api/internal/authz"
	"github.com/ausverity/ausverity-api/internal/jobs"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/ausverity/ausverity-api/pkg/logger"
	"gorm.io/gorm"
)

// ReviewService handles client reviews: submission, moderation, the single
// professional response, and rating aggregates.
type ReviewService struct {
	repo            repository.ReviewRepository
	lawyerRepo      repository.LawyerRepository
	firmRepo        repository.FirmRepository
	auditSvc        *AuditService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	worker          *jobs.Worker
}

func NewReviewService(
	repo repository.ReviewRepository,
	lawyerRepo repository.LawyerRepository,
	firmRepo repository.FirmRepository,
	auditSvc *AuditService,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	worker *jobs.Worker,
) *ReviewService {
	return &ReviewService{
		repo:            repo,
		lawyerRepo:      lawyerRepo,
		firmRepo:        firmRepo,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		worker:          worker,
	}
}

// Submit creates a review against a published lawyer or firm. The review is
// held pending moderation and does not affect the public rating until
// approved.
func (s *ReviewService) Submit(ctx context.Context, actor authz.Actor, entityType string, entityID uint, rating int, comment string) (*models.Review, error) {
	if !authz.CanSubmitReview(actor) {
		return nil, ErrUnauthorized
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, models.MinRating, models.MaxRating)
	}
	if len(comment) < models.MinCommentLength {
		return nil, fmt.Errorf("%w: comment must be at least %d characters", ErrValidation, models.MinCommentLength)
	}

	review := &models.Review{
		ClientID: actor.UserID,
		Rating:   rating,
		Comment:  comment,
		Status:   models.ReviewStatusPending,
	}

	switch entityType {
	case models.EntityTypeLawyer:
		lawyer, err := s.lawyerRepo.FindByID(ctx, entityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !lawyer.IsPublished() {
			return nil, ErrNotFound
		}
		if lawyer.UserID == actor.UserID {
			return nil, fmt.Errorf("%w: you cannot review your own profile", ErrValidation)
		}
		review.LawyerID = &lawyer.ID
	case models.EntityTypeFirm:
		firm, err := s.firmRepo.FindByID(ctx, entityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !firm.IsPublished() {
			return nil, ErrNotFound
		}
		if firm.OwnerID == actor.UserID {
			return nil, fmt.Errorf("%w: you cannot review your own firm", ErrValidation)
		}
		review.FirmID = &firm.ID
	default:
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrValidation, entityType)
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Review awaiting moderation",
			fmt.Sprintf("A new %d-star review is waiting for moderation", rating),
			models.NotificationTypeReviewReceived)
	})

	return review, nil
}

// Approve publishes a pending review and notifies the reviewed professional
func (s *ReviewService) Approve(ctx context.Context, actor authz.Actor, reviewID uint) (*models.Review, error) {
	review, err := s.moderate(ctx, actor, reviewID, models.ReviewStatusApproved, models.AuditActionApproveReview)
	if err != nil {
		return nil, err
	}

	ownerUserID, ownerEmail, ownerName, err := s.ownerContact(ctx, review)
	if err == nil {
		rating := review.Rating
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			if err := s.notificationSvc.NotifyUser(ctx, ownerUserID,
				"New client review published",
				fmt.Sprintf("A %d-star review was published on your profile", rating),
				models.NotificationTypeReviewApproved); err != nil {
				return err
			}
			return s.emailSvc.SendReviewReceived(ctx, ownerEmail, ownerName, rating)
		})
	}

	return review, nil
}

// Reject discards a pending review without publishing it
func (s *ReviewService) Reject(ctx context.Context, actor authz.Actor, reviewID uint) (*models.Review, error) {
	return s.moderate(ctx, actor, reviewID, models.ReviewStatusRejected, models.AuditActionRejectReview)
}

func (s *ReviewService) moderate(ctx context.Context, actor authz.Actor, reviewID uint, status, auditAction string) (*models.Review, error) {
	if !authz.CanDecide(actor) {
		return nil, ErrUnauthorized
	}

	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !review.MayModerate() {
		return nil, fmt.Errorf("%w: review is already %s", ErrInvalidState, review.Status)
	}

	review.Status = status
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	if err := s.auditSvc.Log(ctx, actor.UserID, auditAction, "Review", review.ID,
		fmt.Sprintf("Review for %s #%d marked %s", review.TargetEntityType(), review.TargetEntityID(), status), "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", auditAction, "error", err)
	}

	return review, nil
}

// Respond publishes the reviewed professional's single response to an
// approved review. A response can be set once and then edited, but only by
// the profile owner.
func (s *ReviewService) Respond(ctx context.Context, actor authz.Actor, reviewID uint, response string) (*models.Review, error) {
	if len(response) < models.MinResponseLength {
		return nil, fmt.Errorf("%w: response must be at least %d characters", ErrValidation, models.MinResponseLength)
	}

	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if review.Status != models.ReviewStatusApproved {
		return nil, fmt.Errorf("%w: only approved reviews can be responded to", ErrInvalidState)
	}

	ownerUserID, _, _, err := s.ownerContact(ctx, review)
	if err != nil {
		return nil, err
	}
	if actor.UserID != ownerUserID && !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	review.Response = &response
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	if err := s.auditSvc.Log(ctx, actor.UserID, models.AuditActionRespondReview, "Review", review.ID,
		"Professional response published", "", ""); err != nil {
		logger.Error("Failed to write audit entry", "action", models.AuditActionRespondReview, "error", err)
	}

	return review, nil
}

// ListForEntity returns the approved, publicly visible reviews for a profile
func (s *ReviewService) ListForEntity(ctx context.Context, entityType string, entityID uint) ([]models.Review, error) {
	return s.repo.FindApprovedForEntity(ctx, entityType, entityID)
}

// ListPending returns reviews awaiting moderation
func (s *ReviewService) ListPending(ctx context.Context, query *repository.ListQuery) ([]models.Review, int64, error) {
	return s.repo.List(ctx, query)
}

// Summary returns the approved rating aggregate for a profile
func (s *ReviewService) Summary(ctx context.Context, entityType string, entityID uint) (*models.RatingSummary, error) {
	return s.repo.Summary(ctx, entityType, entityID)
}

// ownerContact resolves the user id, email and display name of the reviewed
// profile's owner.
func (s *ReviewService) ownerContact(ctx context.Context, review *models.Review) (uint, string, string, error) {
	if review.LawyerID != nil {
		lawyer, err := s.lawyerRepo.FindByID(ctx, *review.LawyerID)
		if err != nil {
			return 0, "", "", err
		}
		return lawyer.UserID, lawyer.Email, lawyer.FullName(), nil
	}
	if review.FirmID != nil {
		firm, err := s.firmRepo.FindByID(ctx, *review.FirmID)
		if err != nil {
			return 0, "", "", err
		}
		return firm.OwnerID, firm.Email, firm.Name, nil
	}
	return 0, "", "", ErrNotFound
}
