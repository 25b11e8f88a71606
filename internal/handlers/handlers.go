package handlers

import (
	"github.com/ausverity/ausverity-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health        *HealthHandler
	Auth          *AuthHandler
	User          *UserHandler
	Lawyer        *LawyerHandler
	Firm          *FirmHandler
	PendingChange *PendingChangeHandler
	Membership    *MembershipHandler
	Review        *ReviewHandler
	Notification  *NotificationHandler
	Audit         *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:        NewHealthHandler(),
		Auth:          NewAuthHandler(svcs.Auth, svcs.User),
		User:          NewUserHandler(svcs.User),
		Lawyer:        NewLawyerHandler(svcs.Lawyer, svcs.Review, svcs.Report),
		Firm:          NewFirmHandler(svcs.Firm, svcs.Review, svcs.Report),
		PendingChange: NewPendingChangeHandler(svcs.PendingChange),
		Membership:    NewMembershipHandler(svcs.Membership),
		Review:        NewReviewHandler(svcs.Review),
		Notification:  NewNotificationHandler(svcs.Notification),
		Audit:         NewAuditHandler(svcs.Audit, svcs.Export),
	}
}
