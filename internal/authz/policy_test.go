package authz

import (
	"testing"

	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanActForLawyer(t *testing.T) {
	owner := Actor{UserID: 10, Role: models.RoleLawyer}
	assert.True(t, CanActForLawyer(owner, 10))
	assert.False(t, CanActForLawyer(owner, 11))

	admin := Actor{UserID: 1, Role: models.RoleAdmin}
	assert.True(t, CanActForLawyer(admin, 11))

	client := Actor{UserID: 11, Role: models.RoleClient}
	assert.True(t, CanActForLawyer(client, 11))
}

func TestCanActForFirm(t *testing.T) {
	owner := Actor{UserID: 10, Role: models.RoleFirmOwner}
	assert.True(t, CanActForFirm(owner, 10))
	assert.False(t, CanActForFirm(owner, 11))

	hybrid := Actor{UserID: 10, Role: models.RoleLawyerFirmOwner}
	assert.True(t, CanActForFirm(hybrid, 10))

	// Matching user id is not enough without a firm-owning role
	client := Actor{UserID: 10, Role: models.RoleClient}
	assert.False(t, CanActForFirm(client, 10))

	admin := Actor{UserID: 1, Role: models.RoleAdmin}
	assert.True(t, CanActForFirm(admin, 10))
}

func TestCanDecide(t *testing.T) {
	assert.True(t, CanDecide(Actor{UserID: 1, Role: models.RoleAdmin}))
	assert.False(t, CanDecide(Actor{UserID: 2, Role: models.RoleLawyer}))
	assert.False(t, CanDecide(Actor{UserID: 3, Role: models.RoleFirmOwner}))
	assert.False(t, CanDecide(Actor{UserID: 4, Role: models.RoleClient}))
}

func TestCanSubmitReview(t *testing.T) {
	assert.True(t, CanSubmitReview(Actor{UserID: 4, Role: models.RoleClient}))
	assert.True(t, CanSubmitReview(Actor{UserID: 1, Role: models.RoleAdmin}))
	assert.False(t, CanSubmitReview(Actor{UserID: 2, Role: models.RoleLawyer}))
	assert.False(t, CanSubmitReview(Actor{UserID: 3, Role: models.RoleFirmOwner}))
}
