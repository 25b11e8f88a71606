package handlers

import (
	"net/http"
	"strconv"

	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/ausverity/ausverity-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService  *services.AuditService
	exportService *services.ExportService
}

func NewAuditHandler(auditService *services.AuditService, exportService *services.ExportService) *AuditHandler {
	return &AuditHandler{auditService: auditService, exportService: exportService}
}

// @Summary List Audit Log
// @Description Get audit log entries, newest first
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Param action query string false "Filter by action"
// @Param entity query string false "Filter by entity"
// @Param user_id query string false "Filter by acting user"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/audit [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := h.buildQuery(c)

	logs, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audit_logs": logs,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Export Audit Log
// @Description Download audit log entries as CSV or XLSX
// @Tags Audit
// @Produce application/octet-stream
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/audit/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	query := h.buildQuery(c)
	query.PerPage = 10000

	logs, _, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var data []byte
	var filename string
	contentType := "text/csv"

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		data, filename, err = h.exportService.ExportAuditXLSX(c.Request.Context(), logs)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		data, filename, err = h.exportService.ExportAuditCSV(c.Request.Context(), logs)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *AuditHandler) buildQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if action := c.Query("action"); action != "" {
		query.Filters["action"] = action
	}
	if entity := c.Query("entity"); entity != "" {
		query.Filters["entity"] = entity
	}
	if userID := c.Query("user_id"); userID != "" {
		query.Filters["user_id"] = userID
	}
	return query
}
