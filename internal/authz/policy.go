// Package authz centralises the role/ownership rules that gate every
// state-changing operation. Handlers gate coarse role access via middleware;
// services call these checks with the loaded entity so ownership is evaluated
// exactly once per operation.
package authz

import (
	"github.com/ausverity/ausverity-api/internal/models"
)

// Actor is the authenticated principal performing an operation
type Actor struct {
	UserID uint
	Role   string
}

// IsAdmin returns true for administrators
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanActForLawyer reports whether the actor may act on behalf of the lawyer
// profile owned by ownerUserID.
func CanActForLawyer(actor Actor, ownerUserID uint) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.UserID == ownerUserID
}

// CanActForFirm reports whether the actor may act on behalf of the firm owned
// by ownerUserID.
func CanActForFirm(actor Actor, ownerUserID uint) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.UserID == ownerUserID && (actor.Role == models.RoleFirmOwner || actor.Role == models.RoleLawyerFirmOwner)
}

// CanDecide reports whether the actor may resolve moderation decisions
// (pending changes and review moderation are admin-only).
func CanDecide(actor Actor) bool {
	return actor.IsAdmin()
}

// CanSubmitReview reports whether the actor may lodge a client review.
func CanSubmitReview(actor Actor) bool {
	return actor.Role == models.RoleClient || actor.IsAdmin()
}
