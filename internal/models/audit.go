package models

import (
	"time"
)

// AuditLog represents a system audit entry
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // SUBMIT_CHANGE, APPROVE_CHANGE, INVITE_LAWYER_TO_FIRM, ...
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Lawyer, LawFirm, PendingChange, FirmInvitation, Review
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"` // JSON or text description
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants for the moderation and membership workflows
const (
	AuditActionSubmitChange  = "SUBMIT_CHANGE"
	AuditActionUpdateChange  = "UPDATE_CHANGE"
	AuditActionApproveChange = "APPROVE_CHANGE"
	AuditActionRejectChange  = "REJECT_CHANGE"

	AuditActionInviteLawyer      = "INVITE_LAWYER_TO_FIRM"
	AuditActionAcceptInvitation  = "ACCEPT_INVITATION"
	AuditActionDeclineInvitation = "DECLINE_INVITATION"
	AuditActionLeaveFirm         = "LEAVE_FIRM"
	AuditActionRemoveLawyer      = "REMOVE_LAWYER_FROM_FIRM"

	AuditActionApproveReview  = "APPROVE_REVIEW"
	AuditActionRejectReview   = "REJECT_REVIEW"
	AuditActionRespondReview  = "RESPOND_REVIEW"
	AuditActionChangeUserRole = "CHANGE_USER_ROLE"
)
