package handlers

import (
	"net/http"

	"github.com/ausverity/ausverity-api/internal/middleware"
	"github.com/ausverity/ausverity-api/internal/services"
	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	membershipService *services.MembershipService
}

func NewMembershipHandler(membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

type inviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary Invite Lawyer
// @Description Invite a lawyer to join the firm by their account email. Fails if the lawyer is already a member of the firm or a pending invitation exists.
// @Tags Membership
// @Accept json
// @Produce json
// @Param id path int true "Firm ID"
// @Param request body inviteRequest true "Lawyer to invite"
// @Success 201 {object} models.FirmInvitationResponse
// @Security BearerAuth
// @Router /firms/{id}/invitations [post]
func (h *MembershipHandler) Invite(c *gin.Context) {
	firmID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := h.membershipService.Invite(c.Request.Context(), middleware.Actor(c), firmID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitation.ToResponse())
}

// @Summary Accept Invitation
// @Description Accept a firm's invitation. Switching firms closes the previous affiliation in the same transaction.
// @Tags Membership
// @Produce json
// @Param id path int true "Invitation ID"
// @Success 200 {object} models.FirmInvitationResponse
// @Security BearerAuth
// @Router /invitations/{id}/accept [post]
func (h *MembershipHandler) Accept(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	invitation, err := h.membershipService.Accept(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitation.ToResponse())
}

// @Summary Decline Invitation
// @Description Decline a firm's invitation
// @Tags Membership
// @Produce json
// @Param id path int true "Invitation ID"
// @Success 200 {object} models.FirmInvitationResponse
// @Security BearerAuth
// @Router /invitations/{id}/decline [post]
func (h *MembershipHandler) Decline(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	invitation, err := h.membershipService.Decline(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitation.ToResponse())
}

// @Summary Lawyer Invitations
// @Description List a lawyer's invitations. Stale pending invitations show as expired.
// @Tags Membership
// @Produce json
// @Param id path int true "Lawyer ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /lawyers/{id}/invitations [get]
func (h *MembershipHandler) ListForLawyer(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	invitations, err := h.membershipService.ListForLawyer(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range invitations {
		responses = append(responses, invitations[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"invitations": responses})
}

// @Summary Firm Invitations
// @Description List a firm's outbound invitations. Stale pending invitations show as expired.
// @Tags Membership
// @Produce json
// @Param id path int true "Firm ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /firms/{id}/invitations [get]
func (h *MembershipHandler) ListForFirm(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	invitations, err := h.membershipService.ListForFirm(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range invitations {
		responses = append(responses, invitations[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"invitations": responses})
}

// @Summary Leave Firm
// @Description End the lawyer's current affiliation at their own request
// @Tags Membership
// @Produce json
// @Param id path int true "Lawyer ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /lawyers/{id}/leave [post]
func (h *MembershipHandler) Leave(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.membershipService.Leave(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left firm"})
}

// @Summary Remove Lawyer
// @Description End a lawyer's affiliation at the firm's request
// @Tags Membership
// @Produce json
// @Param id path int true "Firm ID"
// @Param lawyer_id path int true "Lawyer ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /firms/{id}/members/{lawyer_id} [delete]
func (h *MembershipHandler) Remove(c *gin.Context) {
	firmID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	lawyerID, ok := parseUintParam(c, "lawyer_id")
	if !ok {
		return
	}

	if err := h.membershipService.Remove(c.Request.Context(), middleware.Actor(c), firmID, lawyerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lawyer removed"})
}

// @Summary Lawyer Employment History
// @Description List a lawyer's past firm affiliations
// @Tags Membership
// @Produce json
// @Param id path int true "Lawyer ID"
// @Success 200 {object} map[string]interface{}
// @Router /lawyers/{id}/history [get]
func (h *MembershipHandler) HistoryForLawyer(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	history, err := h.membershipService.HistoryForLawyer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// @Summary Firm Alumni History
// @Description List a firm's past lawyer affiliations
// @Tags Membership
// @Produce json
// @Param id path int true "Firm ID"
// @Success 200 {object} map[string]interface{}
// @Router /firms/{id}/history [get]
func (h *MembershipHandler) HistoryForFirm(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	history, err := h.membershipService.HistoryForFirm(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
