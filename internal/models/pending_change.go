package models

import (
	"encoding/json"
	"time"
)

// PendingChange is a proposed profile edit awaiting admin review. The edit is
// stored as a sparse patch; the live profile is untouched until approval.
type PendingChange struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EntityType  string     `gorm:"not null;index" json:"entity_type"`
	LawyerID    *uint      `gorm:"index" json:"lawyer_id"`
	FirmID      *uint      `gorm:"index" json:"firm_id"`
	Changes     string     `gorm:"type:jsonb;not null" json:"changes"`
	Status      string     `gorm:"default:pending;index" json:"status"`
	AdminNotes  *string    `gorm:"type:text" json:"admin_notes"`
	SubmittedBy uint       `gorm:"not null" json:"submitted_by"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at"`

	// Associations
	Lawyer    *Lawyer  `gorm:"foreignKey:LawyerID" json:"lawyer,omitempty"`
	Firm      *LawFirm `gorm:"foreignKey:FirmID" json:"firm,omitempty"`
	Submitter User     `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
}

// TableName specifies the table name for PendingChange
func (PendingChange) TableName() string {
	return "pending_changes"
}

// Entity type constants
const (
	EntityTypeLawyer = "lawyer"
	EntityTypeFirm   = "firm"
)

// Change status constants
const (
	ChangeStatusPending  = "pending"
	ChangeStatusApproved = "approved"
	ChangeStatusRejected = "rejected"
)

// EntityID returns the id of the entity the change targets
func (c *PendingChange) EntityID() uint {
	if c.EntityType == EntityTypeLawyer && c.LawyerID != nil {
		return *c.LawyerID
	}
	if c.EntityType == EntityTypeFirm && c.FirmID != nil {
		return *c.FirmID
	}
	return 0
}

// MayApprove returns true if the change can be approved
func (c *PendingChange) MayApprove() bool {
	return c.Status == ChangeStatusPending
}

// MayReject returns true if the change can be rejected
func (c *PendingChange) MayReject() bool {
	return c.Status == ChangeStatusPending
}

// LawyerPatch is a sparse edit to a lawyer profile. Nil fields keep the live
// value; non-nil list fields replace the published collection wholesale.
type LawyerPatch struct {
	FirstName        *string                `json:"first_name,omitempty"`
	LastName         *string                `json:"last_name,omitempty"`
	Email            *string                `json:"email,omitempty"`
	Phone            *string                `json:"phone,omitempty"`
	Bio              *string                `json:"bio,omitempty"`
	YearsExperience  *int                   `json:"years_experience,omitempty"`
	PracticeAreas    *[]string              `json:"practice_areas,omitempty"`
	CourtAppearances *[]CourtAppearanceItem `json:"court_appearances,omitempty"`
	Languages        *[]string              `json:"languages,omitempty"`
	Certifications   *[]CertificationItem   `json:"certifications,omitempty"`
}

// IsEmpty returns true if the patch proposes no change
func (p *LawyerPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.Bio == nil && p.YearsExperience == nil &&
		p.PracticeAreas == nil && p.CourtAppearances == nil &&
		p.Languages == nil && p.Certifications == nil
}

// ChangesName returns true if the patch touches a name field, which forces a
// slug regeneration on approval.
func (p *LawyerPatch) ChangesName() bool {
	return p.FirstName != nil || p.LastName != nil
}

// ApplyTo overwrites the lawyer's fields with the patch values. Absent fields
// are left as-is; list fields are replaced entirely.
func (p *LawyerPatch) ApplyTo(l *Lawyer) {
	if p.FirstName != nil {
		l.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		l.LastName = *p.LastName
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Bio != nil {
		l.Bio = p.Bio
	}
	if p.YearsExperience != nil {
		l.YearsExperience = *p.YearsExperience
	}
	if p.PracticeAreas != nil {
		l.PracticeAreas = make([]PracticeArea, 0, len(*p.PracticeAreas))
		for _, name := range *p.PracticeAreas {
			l.PracticeAreas = append(l.PracticeAreas, PracticeArea{LawyerID: &l.ID, Name: name})
		}
	}
	if p.CourtAppearances != nil {
		l.CourtAppearances = make([]CourtAppearance, 0, len(*p.CourtAppearances))
		for _, item := range *p.CourtAppearances {
			l.CourtAppearances = append(l.CourtAppearances, CourtAppearance{
				LawyerID:     l.ID,
				CourtName:    item.CourtName,
				Jurisdiction: item.Jurisdiction,
			})
		}
	}
	if p.Languages != nil {
		l.Languages = make([]Language, 0, len(*p.Languages))
		for _, name := range *p.Languages {
			l.Languages = append(l.Languages, Language{LawyerID: l.ID, Name: name})
		}
	}
	if p.Certifications != nil {
		l.Certifications = make([]Certification, 0, len(*p.Certifications))
		for _, item := range *p.Certifications {
			l.Certifications = append(l.Certifications, Certification{
				LawyerID: l.ID,
				Name:     item.Name,
				Year:     item.Year,
			})
		}
	}
}

// FirmPatch is a sparse edit to a firm profile
type FirmPatch struct {
	Name          *string   `json:"name,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Website       *string   `json:"website,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Description   *string   `json:"description,omitempty"`
	PracticeAreas *[]string `json:"practice_areas,omitempty"`
}

// IsEmpty returns true if the patch proposes no change
func (p *FirmPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil &&
		p.Website == nil && p.Address == nil && p.Description == nil &&
		p.PracticeAreas == nil
}

// ChangesName returns true if the patch renames the firm
func (p *FirmPatch) ChangesName() bool {
	return p.Name != nil
}

// ApplyTo overwrites the firm's fields with the patch values
func (p *FirmPatch) ApplyTo(f *LawFirm) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Email != nil {
		f.Email = *p.Email
	}
	if p.Phone != nil {
		f.Phone = *p.Phone
	}
	if p.Website != nil {
		f.Website = p.Website
	}
	if p.Address != nil {
		f.Address = p.Address
	}
	if p.Description != nil {
		f.Description = p.Description
	}
	if p.PracticeAreas != nil {
		f.PracticeAreas = make([]PracticeArea, 0, len(*p.PracticeAreas))
		for _, name := range *p.PracticeAreas {
			f.PracticeAreas = append(f.PracticeAreas, PracticeArea{FirmID: &f.ID, Name: name})
		}
	}
}

// LawyerPatchFromChanges decodes a stored changes document into a LawyerPatch
func LawyerPatchFromChanges(changes string) (*LawyerPatch, error) {
	var patch LawyerPatch
	if err := json.Unmarshal([]byte(changes), &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// FirmPatchFromChanges decodes a stored changes document into a FirmPatch
func FirmPatchFromChanges(changes string) (*FirmPatch, error) {
	var patch FirmPatch
	if err := json.Unmarshal([]byte(changes), &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// PendingChangeResponse is the JSON response format for pending changes
type PendingChangeResponse struct {
	ID          uint            `json:"id"`
	EntityType  string          `json:"entity_type"`
	EntityID    uint            `json:"entity_id"`
	EntityName  string          `json:"entity_name,omitempty"`
	Changes     json.RawMessage `json:"changes"`
	Status      string          `json:"status"`
	AdminNotes  *string         `json:"admin_notes"`
	SubmittedBy uint            `json:"submitted_by"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at"`
}

// ToResponse converts PendingChange to PendingChangeResponse
func (c *PendingChange) ToResponse() PendingChangeResponse {
	resp := PendingChangeResponse{
		ID:          c.ID,
		EntityType:  c.EntityType,
		EntityID:    c.EntityID(),
		Changes:     json.RawMessage(c.Changes),
		Status:      c.Status,
		AdminNotes:  c.AdminNotes,
		SubmittedBy: c.SubmittedBy,
		CreatedAt:   c.CreatedAt,
		ProcessedAt: c.ProcessedAt,
	}
	if c.Lawyer != nil {
		resp.EntityName = c.Lawyer.FullName()
	}
	if c.Firm != nil {
		resp.EntityName = c.Firm.Name
	}
	return resp
}
