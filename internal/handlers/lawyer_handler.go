package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ausverity/ausverity-api/internal/middleware"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/ausverity/ausverity-api/internal/services"
	"github.com/gin-gonic/gin"
)

type LawyerHandler struct {
	lawyerService *services.LawyerService
	reviewService *services.ReviewService
	reportService *services.ReportService
}

func NewLawyerHandler(lawyerService *services.LawyerService, reviewService *services.ReviewService, reportService *services.ReportService) *LawyerHandler {
	return &LawyerHandler{
		lawyerService: lawyerService,
		reviewService: reviewService,
		reportService: reportService,
	}
}

// @Summary Search Lawyers
// @Description Search the public directory of published lawyers
// @Tags Lawyers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Name or keyword"
// @Param practice_area query string false "Filter by practice area"
// @Success 200 {object} map[string]interface{}
// @Router /lawyers [get]
func (h *LawyerHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	if pa := c.Query("practice_area"); pa != "" {
		query.Filters["practice_area"] = pa
	}

	lawyers, total, err := h.lawyerService.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lawyers": lawyers,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Lawyer
// @Description Get a published lawyer profile by slug, with approved reviews
// @Tags Lawyers
// @Produce json
// @Param slug path string true "Profile slug"
// @Success 200 {object} map[string]interface{}
// @Router /lawyers/{slug} [get]
func (h *LawyerHandler) Show(c *gin.Context) {
	profile, err := h.lawyerService.GetPublicProfile(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	reviews, err := h.reviewService.ListForEntity(c.Request.Context(), "lawyer", profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	var reviewResponses []interface{}
	for i := range reviews {
		reviewResponses = append(reviewResponses, reviews[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"lawyer":  profile,
		"reviews": reviewResponses,
	})
}

// @Summary My Lawyer Profile
// @Description Get the authenticated user's own lawyer profile, including unpublished state
// @Tags Lawyers
// @Produce json
// @Success 200 {object} models.LawyerResponse
// @Security BearerAuth
// @Router /lawyers/me [get]
func (h *LawyerHandler) Me(c *gin.Context) {
	lawyer, err := h.lawyerService.FindByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	detailed, err := h.lawyerService.GetDashboard(c.Request.Context(), middleware.Actor(c), lawyer.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detailed.ToResponse())
}

// @Summary Download Lawyer Profile PDF
// @Description Download a lawyer's profile as a PDF document
// @Tags Lawyers
// @Produce application/pdf
// @Param id path int true "Lawyer ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /lawyers/{id}/pdf [get]
func (h *LawyerHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	buf, err := h.reportService.GenerateLawyerProfilePDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=lawyer_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
