package models

import (
	"time"
)

// LawFirm is a law firm's public directory profile
type LawFirm struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"uniqueIndex;not null" json:"owner_id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"not null" json:"email"`
	Phone       string    `gorm:"not null" json:"phone"`
	Website     *string   `json:"website"`
	Address     *string   `gorm:"type:text" json:"address"`
	Description *string   `gorm:"type:text" json:"description"`
	Status      string    `gorm:"default:draft;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Owner         User           `gorm:"foreignKey:OwnerID" json:"-"`
	Lawyers       []Lawyer       `gorm:"foreignKey:FirmID" json:"lawyers,omitempty"`
	PracticeAreas []PracticeArea `gorm:"foreignKey:FirmID" json:"practice_areas,omitempty"`
}

// TableName specifies the table name for LawFirm
func (LawFirm) TableName() string {
	return "law_firms"
}

// IsPublished returns true if the profile is publicly visible
func (f *LawFirm) IsPublished() bool {
	return f.Status == ProfileStatusPublished
}

// FirmResponse is the JSON response format for firm profiles
type FirmResponse struct {
	ID            uint             `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	Website       *string          `json:"website"`
	Address       *string          `json:"address"`
	Description   *string          `json:"description"`
	Status        string           `json:"status"`
	PracticeAreas []string         `json:"practice_areas"`
	Lawyers       []LawyerResponse `json:"lawyers,omitempty"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int64            `json:"review_count"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ToResponse converts LawFirm to FirmResponse
func (f *LawFirm) ToResponse() FirmResponse {
	resp := FirmResponse{
		ID:          f.ID,
		Slug:        f.Slug,
		Name:        f.Name,
		Email:       f.Email,
		Phone:       f.Phone,
		Website:     f.Website,
		Address:     f.Address,
		Description: f.Description,
		Status:      f.Status,
		UpdatedAt:   f.UpdatedAt,
	}

	resp.PracticeAreas = make([]string, 0, len(f.PracticeAreas))
	for _, pa := range f.PracticeAreas {
		resp.PracticeAreas = append(resp.PracticeAreas, pa.Name)
	}

	for _, lawyer := range f.Lawyers {
		resp.Lawyers = append(resp.Lawyers, lawyer.ToResponse())
	}

	return resp
}
