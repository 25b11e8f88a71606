package models

import (
	"time"
)

// Lawyer is a lawyer's public directory profile
type Lawyer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FirmID          *uint     `gorm:"index" json:"firm_id"`
	Slug            string    `gorm:"uniqueIndex;not null" json:"slug"`
	FirstName       string    `gorm:"not null" json:"first_name"`
	LastName        string    `gorm:"not null" json:"last_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Bio             *string   `gorm:"type:text" json:"bio"`
	YearsExperience int       `gorm:"default:0" json:"years_experience"`
	Status          string    `gorm:"default:draft;index" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	User             User              `gorm:"foreignKey:UserID" json:"-"`
	Firm             *LawFirm          `gorm:"foreignKey:FirmID" json:"firm,omitempty"`
	PracticeAreas    []PracticeArea    `gorm:"foreignKey:LawyerID" json:"practice_areas,omitempty"`
	CourtAppearances []CourtAppearance `gorm:"foreignKey:LawyerID" json:"court_appearances,omitempty"`
	Languages        []Language        `gorm:"foreignKey:LawyerID" json:"languages,omitempty"`
	Certifications   []Certification   `gorm:"foreignKey:LawyerID" json:"certifications,omitempty"`
}

// TableName specifies the table name for Lawyer
func (Lawyer) TableName() string {
	return "lawyers"
}

// Profile status constants, shared by Lawyer and LawFirm
const (
	ProfileStatusDraft     = "draft"
	ProfileStatusPending   = "pending"
	ProfileStatusPublished = "published"
	ProfileStatusRejected  = "rejected"
)

// FullName returns the lawyer's display name
func (l *Lawyer) FullName() string {
	return l.FirstName + " " + l.LastName
}

// IsAffiliated returns true if the lawyer currently belongs to a firm
func (l *Lawyer) IsAffiliated() bool {
	return l.FirmID != nil
}

// IsPublished returns true if the profile is publicly visible
func (l *Lawyer) IsPublished() bool {
	return l.Status == ProfileStatusPublished
}

// PracticeArea is a single practice area attached to a lawyer or a firm
type PracticeArea struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LawyerID  *uint     `gorm:"index" json:"lawyer_id,omitempty"`
	FirmID    *uint     `gorm:"index" json:"firm_id,omitempty"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"-"`
}

// TableName specifies the table name for PracticeArea
func (PracticeArea) TableName() string {
	return "practice_areas"
}

// CourtAppearance records a court a lawyer appears before
type CourtAppearance struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LawyerID     uint      `gorm:"not null;index" json:"lawyer_id"`
	CourtName    string    `gorm:"not null" json:"court_name"`
	Jurisdiction string    `json:"jurisdiction"`
	CreatedAt    time.Time `json:"-"`
}

// TableName specifies the table name for CourtAppearance
func (CourtAppearance) TableName() string {
	return "court_appearances"
}

// Language is a language a lawyer practises in
type Language struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LawyerID  uint      `gorm:"not null;index" json:"lawyer_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"-"`
}

// TableName specifies the table name for Language
func (Language) TableName() string {
	return "languages"
}

// Certification is a professional certification held by a lawyer
type Certification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LawyerID  uint      `gorm:"not null;index" json:"lawyer_id"`
	Name      string    `gorm:"not null" json:"name"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"-"`
}

// TableName specifies the table name for Certification
func (Certification) TableName() string {
	return "certifications"
}

// LawyerResponse is the JSON response format for lawyer profiles
type LawyerResponse struct {
	ID               uint                  `json:"id"`
	Slug             string                `json:"slug"`
	FirstName        string                `json:"first_name"`
	LastName         string                `json:"last_name"`
	FullName         string                `json:"full_name"`
	Email            string                `json:"email"`
	Phone            string                `json:"phone"`
	Bio              *string               `json:"bio"`
	YearsExperience  int                   `json:"years_experience"`
	Status           string                `json:"status"`
	FirmID           *uint                 `json:"firm_id"`
	FirmName         string                `json:"firm_name,omitempty"`
	FirmSlug         string                `json:"firm_slug,omitempty"`
	PracticeAreas    []string              `json:"practice_areas"`
	CourtAppearances []CourtAppearanceItem `json:"court_appearances"`
	Languages        []string              `json:"languages"`
	Certifications   []CertificationItem   `json:"certifications"`
	AverageRating    float64               `json:"average_rating"`
	ReviewCount      int64                 `json:"review_count"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// CourtAppearanceItem is the response shape for a court appearance
type CourtAppearanceItem struct {
	CourtName    string `json:"court_name"`
	Jurisdiction string `json:"jurisdiction"`
}

// CertificationItem is the response shape for a certification
type CertificationItem struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

// ToResponse converts Lawyer to LawyerResponse
func (l *Lawyer) ToResponse() LawyerResponse {
	resp := LawyerResponse{
		ID:              l.ID,
		Slug:            l.Slug,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		FullName:        l.FullName(),
		Email:           l.Email,
		Phone:           l.Phone,
		Bio:             l.Bio,
		YearsExperience: l.YearsExperience,
		Status:          l.Status,
		FirmID:          l.FirmID,
		UpdatedAt:       l.UpdatedAt,
	}

	if l.Firm != nil {
		resp.FirmName = l.Firm.Name
		resp.FirmSlug = l.Firm.Slug
	}

	resp.PracticeAreas = make([]string, 0, len(l.PracticeAreas))
	for _, pa := range l.PracticeAreas {
		resp.PracticeAreas = append(resp.PracticeAreas, pa.Name)
	}

	resp.CourtAppearances = make([]CourtAppearanceItem, 0, len(l.CourtAppearances))
	for _, ca := range l.CourtAppearances {
		resp.CourtAppearances = append(resp.CourtAppearances, CourtAppearanceItem{
			CourtName:    ca.CourtName,
			Jurisdiction: ca.Jurisdiction,
		})
	}

	resp.Languages = make([]string, 0, len(l.Languages))
	for _, lang := range l.Languages {
		resp.Languages = append(resp.Languages, lang.Name)
	}

	resp.Certifications = make([]CertificationItem, 0, len(l.Certifications))
	for _, cert := range l.Certifications {
		resp.Certifications = append(resp.Certifications, CertificationItem{
			Name: cert.Name,
			Year: cert.Year,
		})
	}

	return resp
}
