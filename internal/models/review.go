package models

import (
	"time"
)

// Review is a client review of a lawyer or a firm. Reviews are held for
// moderation and only approved reviews are publicly visible.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LawyerID  *uint     `gorm:"index" json:"lawyer_id"`
	FirmID    *uint     `gorm:"index" json:"firm_id"`
	ClientID  uint      `gorm:"not null;index" json:"client_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	Response  *string   `gorm:"type:text" json:"response"`
	Status    string    `gorm:"default:pending;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Lawyer *Lawyer  `gorm:"foreignKey:LawyerID" json:"lawyer,omitempty"`
	Firm   *LawFirm `gorm:"foreignKey:FirmID" json:"firm,omitempty"`
	Client User     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for Review
func (Review) TableName() string {
	return "reviews"
}

// Review status constants
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Review validation floors
const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 20
	MinResponseLength = 20
)

// MayModerate returns true if the review is still awaiting a decision
func (r *Review) MayModerate() bool {
	return r.Status == ReviewStatusPending
}

// TargetEntityType returns which kind of profile the review targets
func (r *Review) TargetEntityType() string {
	if r.LawyerID != nil {
		return EntityTypeLawyer
	}
	return EntityTypeFirm
}

// TargetEntityID returns the id of the reviewed profile
func (r *Review) TargetEntityID() uint {
	if r.LawyerID != nil {
		return *r.LawyerID
	}
	if r.FirmID != nil {
		return *r.FirmID
	}
	return 0
}

// RatingSummary is an aggregate of approved reviews for one profile
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// ReviewResponse is the JSON response format for reviews
type ReviewResponse struct {
	ID         uint      `json:"id"`
	LawyerID   *uint     `json:"lawyer_id,omitempty"`
	FirmID     *uint     `json:"firm_id,omitempty"`
	ClientName string    `json:"client_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Response   *string   `json:"response"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts Review to ReviewResponse
func (r *Review) ToResponse() ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		LawyerID:   r.LawyerID,
		FirmID:     r.FirmID,
		ClientName: r.Client.FullName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Response:   r.Response,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}
