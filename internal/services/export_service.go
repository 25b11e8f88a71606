package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// exportFilename builds a unique download name like audit_log_2026-08-31_1a2b3c4d.csv
func exportFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", prefix, time.Now().Format("2006-01-02"), uuid.New().String()[:8], ext)
}

// ExportService produces downloadable exports for the admin console
type ExportService struct {
	auditSvc *AuditService
}

func NewExportService(auditSvc *AuditService) *ExportService {
	return &ExportService{auditSvc: auditSvc}
}

// ExportAuditCSV writes audit log entries as CSV
func (s *ExportService) ExportAuditCSV(ctx context.Context, logs []models.AuditLog) ([]byte, string, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"ID", "User ID", "Action", "Entity", "Entity ID", "Details", "IP Address", "Created At"}
	if err := w.Write(header); err != nil {
		return nil, "", err
	}

	for _, entry := range logs {
		row := []string{
			strconv.FormatUint(uint64(entry.ID), 10),
			strconv.FormatUint(uint64(entry.UserID), 10),
			entry.Action,
			entry.Entity,
			strconv.FormatUint(uint64(entry.EntityID), 10),
			entry.Details,
			entry.IPAddress,
			entry.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := exportFilename("audit_log", "csv")
	return b.Bytes(), filename, nil
}

// ExportAuditXLSX writes audit log entries as a styled spreadsheet
func (s *ExportService) ExportAuditXLSX(ctx context.Context, logs []models.AuditLog) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Audit Log"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"ID", "User ID", "Action", "Entity", "Entity ID", "Details", "IP Address", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, entry := range logs {
		values := []interface{}{
			entry.ID,
			entry.UserID,
			entry.Action,
			entry.Entity,
			entry.EntityID,
			entry.Details,
			entry.IPAddress,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := exportFilename("audit_log", "xlsx")
	return buf.Bytes(), filename, nil
}

// ExportDirectoryXLSX writes the published lawyer directory as a spreadsheet
func (s *ExportService) ExportDirectoryXLSX(ctx context.Context, lawyers []models.LawyerResponse) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Directory"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Name", "Firm", "Email", "Phone", "Years Experience", "Average Rating", "Reviews"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, lawyer := range lawyers {
		values := []interface{}{
			lawyer.FullName,
			lawyer.FirmName,
			lawyer.Email,
			lawyer.Phone,
			lawyer.YearsExperience,
			fmt.Sprintf("%.1f", lawyer.AverageRating),
			lawyer.ReviewCount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := exportFilename("directory", "xlsx")
	return buf.Bytes(), filename, nil
}
