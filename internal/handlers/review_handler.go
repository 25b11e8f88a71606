package handlers

import (
	"net/http"
	"strconv"

	"github.com/ausverity/ausverity-api/internal/middleware"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/ausverity/ausverity-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type submitReviewRequest struct {
	EntityType string `json:"entity_type" binding:"required"`
	EntityID   uint   `json:"entity_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment" binding:"required"`
}

type respondReviewRequest struct {
	Response string `json:"response" binding:"required"`
}

// @Summary Submit Review
// @Description Lodge a client review against a published lawyer or firm. Held for moderation.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param request body submitReviewRequest true "Review"
// @Success 201 {object} models.ReviewResponse
// @Security BearerAuth
// @Router /reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Submit(c.Request.Context(), middleware.Actor(c), req.EntityType, req.EntityID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review.ToResponse())
}

// @Summary Respond to Review
// @Description Publish the professional's response to an approved review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path int true "Review ID"
// @Param request body respondReviewRequest true "Response text"
// @Success 200 {object} models.ReviewResponse
// @Security BearerAuth
// @Router /reviews/{id}/respond [post]
func (h *ReviewHandler) Respond(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req respondReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Respond(c.Request.Context(), middleware.Actor(c), id, req.Response)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review.ToResponse())
}

// @Summary List Pending Reviews
// @Description Get reviews awaiting moderation
// @Tags Reviews
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/reviews [get]
func (h *ReviewHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.DefaultQuery("status", models.ReviewStatusPending)

	reviews, total, err := h.reviewService.ListPending(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range reviews {
		responses = append(responses, reviews[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Approve Review
// @Description Publish a pending review
// @Tags Reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} models.ReviewResponse
// @Security BearerAuth
// @Router /admin/reviews/{id}/approve [post]
func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Approve(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review.ToResponse())
}

// @Summary Reject Review
// @Description Dismiss a pending review without publishing it
// @Tags Reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} models.ReviewResponse
// @Security BearerAuth
// @Router /admin/reviews/{id}/reject [post]
func (h *ReviewHandler) Reject(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Reject(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review.ToResponse())
}
