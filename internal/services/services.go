package services

import (
	"github.com/ausverity/ausverity-api/internal/config"
	"github.com/ausverity/ausverity-api/internal/jobs"
	"github.com/ausverity/ausverity-api/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth          *AuthService
	User          *UserService
	Lawyer        *LawyerService
	Firm          *FirmService
	PendingChange *PendingChangeService
	Membership    *MembershipService
	Review        *ReviewService
	Notification  *NotificationService
	Audit         *AuditService
	Email         *EmailService
	Report        *ReportService
	Export        *ExportService
	Slug          *SlugService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)
	slugSvc := NewSlugService()

	lawyerSvc := NewLawyerService(repos.Lawyer, repos.Review, slugSvc)
	firmSvc := NewFirmService(repos.Firm, repos.Lawyer, repos.Review, slugSvc)

	return &Services{
		Auth:          NewAuthService(repos.User, repos.RefreshToken, lawyerSvc, firmSvc, emailSvc, worker, cfg),
		User:          NewUserService(repos.User, auditSvc),
		Lawyer:        lawyerSvc,
		Firm:          firmSvc,
		PendingChange: NewPendingChangeService(db, repos.PendingChange, repos.Lawyer, repos.Firm, slugSvc, auditSvc, notificationSvc, worker),
		Membership:    NewMembershipService(db, repos.Invitation, repos.History, repos.Lawyer, repos.Firm, repos.User, auditSvc, notificationSvc, emailSvc, worker, cfg.InvitationTTL),
		Review:        NewReviewService(repos.Review, repos.Lawyer, repos.Firm, auditSvc, notificationSvc, emailSvc, worker),
		Notification:  notificationSvc,
		Audit:         auditSvc,
		Email:         emailSvc,
		Report:        NewReportService(repos.Lawyer, repos.Firm, repos.Review),
		Export:        NewExportService(auditSvc),
		Slug:          slugSvc,
	}
}
