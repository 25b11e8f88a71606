package models

import (
	"time"
)

// FirmInvitation is an invitation from a firm to a lawyer to join its team
type FirmInvitation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirmID    uint      `gorm:"not null;index" json:"firm_id"`
	LawyerID  uint      `gorm:"not null;index" json:"lawyer_id"`
	InvitedBy uint      `gorm:"not null" json:"invited_by"`
	Token     string    `gorm:"not null" json:"-"` // reserved for email confirmation links
	Status    string    `gorm:"default:pending;index" json:"status"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Firm    LawFirm `gorm:"foreignKey:FirmID" json:"firm,omitempty"`
	Lawyer  Lawyer  `gorm:"foreignKey:LawyerID" json:"lawyer,omitempty"`
	Inviter User    `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
}

// TableName specifies the table name for FirmInvitation
func (FirmInvitation) TableName() string {
	return "firm_invitations"
}

// Invitation status constants
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
	InvitationStatusExpired  = "expired"
)

// IsExpired returns true if the invitation's expiry window has elapsed
func (i *FirmInvitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// MayAccept returns true if the invitation can be accepted
func (i *FirmInvitation) MayAccept() bool {
	return i.Status == InvitationStatusPending && !i.IsExpired()
}

// MayDecline returns true if the invitation can be declined
func (i *FirmInvitation) MayDecline() bool {
	return i.Status == InvitationStatusPending && !i.IsExpired()
}

// IsTerminal returns true once the invitation can no longer transition
func (i *FirmInvitation) IsTerminal() bool {
	return i.Status != InvitationStatusPending
}

// FirmInvitationResponse is the JSON response format for invitations
type FirmInvitationResponse struct {
	ID         uint      `json:"id"`
	FirmID     uint      `json:"firm_id"`
	FirmName   string    `json:"firm_name,omitempty"`
	LawyerID   uint      `json:"lawyer_id"`
	LawyerName string    `json:"lawyer_name,omitempty"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts FirmInvitation to FirmInvitationResponse
func (i *FirmInvitation) ToResponse() FirmInvitationResponse {
	return FirmInvitationResponse{
		ID:         i.ID,
		FirmID:     i.FirmID,
		FirmName:   i.Firm.Name,
		LawyerID:   i.LawyerID,
		LawyerName: i.Lawyer.FullName(),
		Status:     i.Status,
		ExpiresAt:  i.ExpiresAt,
		CreatedAt:  i.CreatedAt,
	}
}

// RelationshipHistory is a closed interval of a lawyer's affiliation with a
// firm. Rows are written once when the relationship ends and never updated.
type RelationshipHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LawyerID  uint      `gorm:"not null;index" json:"lawyer_id"`
	FirmID    uint      `gorm:"not null;index" json:"firm_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Lawyer Lawyer  `gorm:"foreignKey:LawyerID" json:"-"`
	Firm   LawFirm `gorm:"foreignKey:FirmID" json:"firm,omitempty"`
}

// TableName specifies the table name for RelationshipHistory
func (RelationshipHistory) TableName() string {
	return "relationship_histories"
}
