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

type FirmHandler struct {
	firmService   *services.FirmService
	reviewService *services.ReviewService
	reportService *services.ReportService
}

func NewFirmHandler(firmService *services.FirmService, reviewService *services.ReviewService, reportService *services.ReportService) *FirmHandler {
	return &FirmHandler{
		firmService:   firmService,
		reviewService: reviewService,
		reportService: reportService,
	}
}

// @Summary Search Firms
// @Description Search the public directory of published law firms
// @Tags Firms
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Name or keyword"
// @Success 200 {object} map[string]interface{}
// @Router /firms [get]
func (h *FirmHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")

	firms, total, err := h.firmService.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"firms": firms,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Firm
// @Description Get a published firm profile by slug, with approved reviews
// @Tags Firms
// @Produce json
// @Param slug path string true "Profile slug"
// @Success 200 {object} map[string]interface{}
// @Router /firms/{slug} [get]
func (h *FirmHandler) Show(c *gin.Context) {
	profile, err := h.firmService.GetPublicProfile(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	reviews, err := h.reviewService.ListForEntity(c.Request.Context(), "firm", profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	var reviewResponses []interface{}
	for i := range reviews {
		reviewResponses = append(reviewResponses, reviews[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"firm":    profile,
		"reviews": reviewResponses,
	})
}

// @Summary My Firm
// @Description Get the authenticated owner's firm, including unpublished state
// @Tags Firms
// @Produce json
// @Success 200 {object} models.FirmResponse
// @Security BearerAuth
// @Router /firms/me [get]
func (h *FirmHandler) Me(c *gin.Context) {
	firm, err := h.firmService.FindByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	detailed, err := h.firmService.GetDashboard(c.Request.Context(), middleware.Actor(c), firm.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detailed.ToResponse())
}

// @Summary Firm Members
// @Description List the lawyers currently affiliated with a firm
// @Tags Firms
// @Produce json
// @Param id path int true "Firm ID"
// @Success 200 {object} map[string]interface{}
// @Router /firms/{id}/members [get]
func (h *FirmHandler) Members(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	members, err := h.firmService.Members(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for i := range members {
		responses = append(responses, members[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"members": responses})
}

// @Summary Download Firm Profile PDF
// @Description Download a firm's profile as a PDF document
// @Tags Firms
// @Produce application/pdf
// @Param id path int true "Firm ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /firms/{id}/pdf [get]
func (h *FirmHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	buf, err := h.reportService.GenerateFirmProfilePDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=firm_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
