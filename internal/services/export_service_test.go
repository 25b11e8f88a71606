package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestExportService_ExportAuditCSV(t *testing.T) {
	service := NewExportService(nil)

	logs := []models.AuditLog{
		{
			ID:        1,
			UserID:    7,
			Action:    models.AuditActionSubmitChange,
			Entity:    "PendingChange",
			EntityID:  21,
			Details:   "Profile edit submitted for lawyer #3",
			CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        2,
			UserID:    1,
			Action:    models.AuditActionApproveChange,
			Entity:    "PendingChange",
			EntityID:  21,
			CreatedAt: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		},
	}

	data, filename, err := service.ExportAuditCSV(context.Background(), logs)
	assert.NoError(t, err)
	assert.Contains(t, filename, "audit_log_")
	assert.Contains(t, filename, ".csv")

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3) // header + two rows
	assert.Equal(t, "Action", records[0][2])
	assert.Equal(t, models.AuditActionSubmitChange, records[1][2])
	assert.Equal(t, models.AuditActionApproveChange, records[2][2])
}

func TestExportService_ExportDirectoryXLSX(t *testing.T) {
	service := NewExportService(nil)

	lawyers := []models.LawyerResponse{
		{FullName: "Jane Citizen", FirmName: "Smith & Partners", YearsExperience: 12, AverageRating: 4.5, ReviewCount: 8},
	}

	data, filename, err := service.ExportDirectoryXLSX(context.Background(), lawyers)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, filename, "directory_")
	assert.Contains(t, filename, ".xlsx")
}

func TestExportFilename_Unique(t *testing.T) {
	a := exportFilename("audit_log", "csv")
	b := exportFilename("audit_log", "csv")
	assert.NotEqual(t, a, b)
}
