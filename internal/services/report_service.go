package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/jung-kurt/gofpdf"
)

// ReportService renders printable profile documents. Firm profiles go through
// an HTML template and wkhtmltopdf; lawyer profiles are drawn directly.
type ReportService struct {
	lawyerRepo repository.LawyerRepository
	firmRepo   repository.FirmRepository
	reviewRepo repository.ReviewRepository
}

func NewReportService(
	lawyerRepo repository.LawyerRepository,
	firmRepo repository.FirmRepository,
	reviewRepo repository.ReviewRepository,
) *ReportService {
	return &ReportService{
		lawyerRepo: lawyerRepo,
		firmRepo:   firmRepo,
		reviewRepo: reviewRepo,
	}
}

// GenerateFirmProfilePDF renders a firm's public profile as a PDF document
func (s *ReportService) GenerateFirmProfilePDF(ctx context.Context, firmID uint) (*bytes.Buffer, error) {
	firm, err := s.firmRepo.FindByIDWithDetails(ctx, firmID)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviewRepo.Summary(ctx, models.EntityTypeFirm, firm.ID)
	if err != nil {
		return nil, err
	}

	practiceAreas := make([]string, 0, len(firm.PracticeAreas))
	for _, pa := range firm.PracticeAreas {
		practiceAreas = append(practiceAreas, pa.Name)
	}

	members := make([]string, 0, len(firm.Lawyers))
	for i := range firm.Lawyers {
		members = append(members, firm.Lawyers[i].FullName())
	}

	data := struct {
		Name          string
		Email         string
		Phone         string
		Website       string
		Address       string
		Description   string
		PracticeAreas []string
		Members       []string
		AverageRating string
		ReviewCount   int64
		GeneratedAt   string
	}{
		Name:          firm.Name,
		Email:         firm.Email,
		Phone:         firm.Phone,
		Website:       derefString(firm.Website),
		Address:       derefString(firm.Address),
		Description:   derefString(firm.Description),
		PracticeAreas: practiceAreas,
		Members:       members,
		AverageRating: fmt.Sprintf("%.1f", summary.AverageRating),
		ReviewCount:   summary.ReviewCount,
		GeneratedAt:   time.Now().Format("2 January 2006"),
	}

	return s.generatePDF("firm_profile.html", data)
}

func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

// GenerateLawyerProfilePDF renders a lawyer's public profile as a one-page PDF
func (s *ReportService) GenerateLawyerProfilePDF(ctx context.Context, lawyerID uint) (*bytes.Buffer, error) {
	lawyer, err := s.lawyerRepo.FindByIDWithDetails(ctx, lawyerID)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviewRepo.Summary(ctx, models.EntityTypeLawyer, lawyer.ID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, lawyer.FullName())
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	if lawyer.Firm != nil {
		pdf.Cell(60, 8, "Firm:")
		pdf.Cell(80, 8, lawyer.Firm.Name)
		pdf.Ln(6)
	}
	pdf.Cell(60, 8, "Email:")
	pdf.Cell(80, 8, lawyer.Email)
	pdf.Ln(6)
	pdf.Cell(60, 8, "Phone:")
	pdf.Cell(80, 8, lawyer.Phone)
	pdf.Ln(6)
	pdf.Cell(60, 8, "Years of experience:")
	pdf.Cell(80, 8, fmt.Sprintf("%d", lawyer.YearsExperience))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Rating:")
	pdf.Cell(80, 8, fmt.Sprintf("%.1f (%d reviews)", summary.AverageRating, summary.ReviewCount))
	pdf.Ln(10)

	if len(lawyer.PracticeAreas) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, "Practice areas")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, pa := range lawyer.PracticeAreas {
			pdf.Cell(80, 6, "- "+pa.Name)
			pdf.Ln(5)
		}
		pdf.Ln(4)
	}

	if len(lawyer.CourtAppearances) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, "Court appearances")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, ca := range lawyer.CourtAppearances {
			pdf.Cell(120, 6, fmt.Sprintf("- %s (%s)", ca.CourtName, ca.Jurisdiction))
			pdf.Ln(5)
		}
		pdf.Ln(4)
	}

	if len(lawyer.Certifications) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, "Certifications")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, cert := range lawyer.Certifications {
			pdf.Cell(120, 6, fmt.Sprintf("- %s (%d)", cert.Name, cert.Year))
			pdf.Ln(5)
		}
		pdf.Ln(4)
	}

	if lawyer.Bio != nil && *lawyer.Bio != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, "About")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(180, 5, *lawyer.Bio, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
