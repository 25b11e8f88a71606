package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestLawyerPatch_ApplyToSparseMerge(t *testing.T) {
	bio := "Original bio"
	lawyer := &Lawyer{
		ID:        3,
		FirstName: "Jane",
		LastName:  "Citizen",
		Email:     "jane@example.com",
		Phone:     "0400000000",
		Bio:       &bio,
		PracticeAreas: []PracticeArea{
			{Name: "Family Law"},
			{Name: "Property Law"},
		},
	}

	patch := &LawyerPatch{
		Phone:         strPtr("0411111111"),
		PracticeAreas: &[]string{"Criminal Law"},
	}
	patch.ApplyTo(lawyer)

	// Patched fields take the new value
	assert.Equal(t, "0411111111", lawyer.Phone)

	// Absent fields keep the live value
	assert.Equal(t, "Jane", lawyer.FirstName)
	assert.Equal(t, "jane@example.com", lawyer.Email)
	assert.Equal(t, "Original bio", *lawyer.Bio)

	// A patched list replaces the collection wholesale
	assert.Len(t, lawyer.PracticeAreas, 1)
	assert.Equal(t, "Criminal Law", lawyer.PracticeAreas[0].Name)
}

func TestLawyerPatch_ApplyToKeepsUnpatchedLists(t *testing.T) {
	lawyer := &Lawyer{
		Languages: []Language{{Name: "English"}, {Name: "Mandarin"}},
	}

	patch := &LawyerPatch{Bio: strPtr("Updated bio")}
	patch.ApplyTo(lawyer)

	assert.Len(t, lawyer.Languages, 2)
	assert.Equal(t, "Updated bio", *lawyer.Bio)
}

func TestLawyerPatch_IsEmpty(t *testing.T) {
	assert.True(t, (&LawyerPatch{}).IsEmpty())
	assert.False(t, (&LawyerPatch{Phone: strPtr("0400000000")}).IsEmpty())

	// An empty list replacement is still a change
	assert.False(t, (&LawyerPatch{Languages: &[]string{}}).IsEmpty())
}

func TestLawyerPatch_ChangesName(t *testing.T) {
	assert.False(t, (&LawyerPatch{Bio: strPtr("x")}).ChangesName())
	assert.True(t, (&LawyerPatch{FirstName: strPtr("John")}).ChangesName())
	assert.True(t, (&LawyerPatch{LastName: strPtr("Smith")}).ChangesName())
}

func TestFirmPatch_ApplyTo(t *testing.T) {
	firm := &LawFirm{
		ID:    7,
		Name:  "Smith & Co",
		Email: "contact@smithco.com.au",
		Phone: "0299999999",
	}

	patch := &FirmPatch{
		Name:          strPtr("Smith & Partners"),
		Website:       strPtr("https://smithpartners.com.au"),
		PracticeAreas: &[]string{"Commercial Law", "Tax Law"},
	}
	patch.ApplyTo(firm)

	assert.Equal(t, "Smith & Partners", firm.Name)
	assert.Equal(t, "contact@smithco.com.au", firm.Email)
	assert.Equal(t, "https://smithpartners.com.au", *firm.Website)
	assert.Len(t, firm.PracticeAreas, 2)
}

func TestLawyerPatchFromChanges(t *testing.T) {
	patch, err := LawyerPatchFromChanges(`{"phone":"0411111111","languages":["English"]}`)
	assert.NoError(t, err)
	assert.Equal(t, "0411111111", *patch.Phone)
	assert.Len(t, *patch.Languages, 1)
	assert.Nil(t, patch.FirstName)

	_, err = LawyerPatchFromChanges(`{not json`)
	assert.Error(t, err)
}

func TestPendingChange_EntityID(t *testing.T) {
	lawyerID := uint(3)
	change := &PendingChange{EntityType: EntityTypeLawyer, LawyerID: &lawyerID}
	assert.Equal(t, uint(3), change.EntityID())

	firmID := uint(9)
	change = &PendingChange{EntityType: EntityTypeFirm, FirmID: &firmID}
	assert.Equal(t, uint(9), change.EntityID())

	assert.Equal(t, uint(0), (&PendingChange{EntityType: EntityTypeLawyer}).EntityID())
}

func TestPendingChange_ToResponse(t *testing.T) {
	firmID := uint(9)
	change := &PendingChange{
		ID:         21,
		EntityType: EntityTypeFirm,
		FirmID:     &firmID,
		Changes:    `{"name":"New Name"}`,
		Status:     ChangeStatusPending,
		Firm:       &LawFirm{ID: firmID, Name: "Old Name"},
	}

	resp := change.ToResponse()
	assert.Equal(t, uint(21), resp.ID)
	assert.Equal(t, uint(9), resp.EntityID)
	assert.Equal(t, "Old Name", resp.EntityName)
	assert.JSONEq(t, `{"name":"New Name"}`, string(resp.Changes))
}
