package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ausverity/ausverity-api/internal/middleware"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/ausverity/ausverity-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PendingChangeHandler struct {
	changeService *services.PendingChangeService
}

func NewPendingChangeHandler(changeService *services.PendingChangeService) *PendingChangeHandler {
	return &PendingChangeHandler{changeService: changeService}
}

type submitChangeRequest struct {
	EntityType string          `json:"entity_type" binding:"required"`
	EntityID   uint            `json:"entity_id" binding:"required"`
	Changes    json.RawMessage `json:"changes" binding:"required"`
}

type decideChangeRequest struct {
	Notes string `json:"notes"`
}

// @Summary Submit Profile Change
// @Description Submit a sparse profile edit for admin review. A resubmission replaces the previous pending edit.
// @Tags Changes
// @Accept json
// @Produce json
// @Param request body submitChangeRequest true "Proposed edit"
// @Success 201 {object} models.PendingChangeResponse
// @Security BearerAuth
// @Router /changes [post]
func (h *PendingChangeHandler) Submit(c *gin.Context) {
	var req submitChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	change, err := h.changeService.Submit(c.Request.Context(), middleware.Actor(c), req.EntityType, req.EntityID, req.Changes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, change.ToResponse())
}

// @Summary Preview Lawyer Changes
// @Description Get the lawyer profile with the pending edit merged in, without publishing it
// @Tags Changes
// @Produce json
// @Param id path int true "Lawyer ID"
// @Success 200 {object} models.LawyerResponse
// @Security BearerAuth
// @Router /lawyers/{id}/preview [get]
func (h *PendingChangeHandler) PreviewLawyer(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	preview, err := h.changeService.PreviewLawyer(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// @Summary Preview Firm Changes
// @Description Get the firm profile with the pending edit merged in, without publishing it
// @Tags Changes
// @Produce json
// @Param id path int true "Firm ID"
// @Success 200 {object} models.FirmResponse
// @Security BearerAuth
// @Router /firms/{id}/preview [get]
func (h *PendingChangeHandler) PreviewFirm(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	preview, err := h.changeService.PreviewFirm(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// @Summary List Pending Changes
// @Description Get the admin review queue, oldest submissions first
// @Tags Changes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param entity_type query string false "Filter by entity type"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/changes [get]
func (h *PendingChangeHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if status := c.Query("status"); status != "" {
		query.Filters["status"] = status
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		query.Filters["entity_type"] = entityType
	}

	changes, total, err := h.changeService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range changes {
		responses = append(responses, changes[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Change Stats
// @Description Get change counts by status for the admin dashboard
// @Tags Changes
// @Produce json
// @Success 200 {object} repository.ChangeStats
// @Security BearerAuth
// @Router /admin/changes/stats [get]
func (h *PendingChangeHandler) Stats(c *gin.Context) {
	stats, err := h.changeService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Get Pending Change
// @Description Get a single change with its target entity
// @Tags Changes
// @Produce json
// @Param id path int true "Change ID"
// @Success 200 {object} models.PendingChangeResponse
// @Security BearerAuth
// @Router /admin/changes/{id} [get]
func (h *PendingChangeHandler) Show(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	change, err := h.changeService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, change.ToResponse())
}

// @Summary Approve Change
// @Description Merge the pending edit into the live profile and publish it
// @Tags Changes
// @Accept json
// @Produce json
// @Param id path int true "Change ID"
// @Param request body decideChangeRequest false "Reviewer notes"
// @Success 200 {object} models.PendingChangeResponse
// @Security BearerAuth
// @Router /admin/changes/{id}/approve [post]
func (h *PendingChangeHandler) Approve(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req decideChangeRequest
	_ = c.ShouldBindJSON(&req)

	change, err := h.changeService.Approve(c.Request.Context(), id, middleware.Actor(c), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, change.ToResponse())
}

// @Summary Reject Change
// @Description Dismiss the pending edit, leaving the live profile untouched
// @Tags Changes
// @Accept json
// @Produce json
// @Param id path int true "Change ID"
// @Param request body decideChangeRequest false "Reviewer notes"
// @Success 200 {object} models.PendingChangeResponse
// @Security BearerAuth
// @Router /admin/changes/{id}/reject [post]
func (h *PendingChangeHandler) Reject(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req decideChangeRequest
	_ = c.ShouldBindJSON(&req)

	change, err := h.changeService.Reject(c.Request.Context(), id, middleware.Actor(c), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, change.ToResponse())
}
