package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/ausverity/ausverity-api/internal/config"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// EmailService sends transactional email through Resend. Sends are best
// effort; callers run them off the request path.
type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	data := struct {
		Name    string
		SiteURL string
	}{
		Name:    user.FullName,
		SiteURL: s.config.SiteURL,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, "Welcome to AusVerity", body)
}

func (s *EmailService) SendRecoveryCode(ctx context.Context, user *models.User, code string) error {
	data := struct {
		Name    string
		Code    string
		Minutes int
		SiteURL string
	}{
		Name:    user.FullName,
		Code:    code,
		Minutes: 15,
		SiteURL: s.config.SiteURL,
	}

	body, err := s.renderTemplate("reset_code.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, "Your password reset code", body)
}

// SendInvitationEmail notifies a lawyer that a firm has invited them
func (s *EmailService) SendInvitationEmail(ctx context.Context, lawyerEmail, lawyerName, firmName string, expiresAt time.Time) error {
	data := struct {
		Name      string
		FirmName  string
		ExpiresAt string
		SiteURL   string
	}{
		Name:      lawyerName,
		FirmName:  firmName,
		ExpiresAt: expiresAt.Format("2 January 2006"),
		SiteURL:   s.config.SiteURL,
	}

	body, err := s.renderTemplate("invitation.html", data)
	if err != nil {
		return err
	}

	return s.send(lawyerEmail, fmt.Sprintf("%s has invited you to join their firm", firmName), body)
}

// SendChangeDecided notifies a profile owner of the moderation outcome
func (s *EmailService) SendChangeDecided(ctx context.Context, email, name string, approved bool, notes string) error {
	data := struct {
		Name    string
		Notes   string
		SiteURL string
	}{
		Name:    name,
		Notes:   notes,
		SiteURL: s.config.SiteURL,
	}

	tmpl := "change_rejected.html"
	subject := "Your profile update was not approved"
	if approved {
		tmpl = "change_approved.html"
		subject = "Your profile update is live"
	}

	body, err := s.renderTemplate(tmpl, data)
	if err != nil {
		return err
	}

	return s.send(email, subject, body)
}

// SendReviewReceived notifies a profile owner that a client review was
// published on their profile.
func (s *EmailService) SendReviewReceived(ctx context.Context, email, name string, rating int) error {
	data := struct {
		Name    string
		Rating  int
		SiteURL string
	}{
		Name:    name,
		Rating:  rating,
		SiteURL: s.config.SiteURL,
	}

	body, err := s.renderTemplate("review_received.html", data)
	if err != nil {
		return err
	}

	return s.send(email, "You have a new client review", body)
}

// checkSendPreconditions verifies the service is configured and the recipient
// is usable. An unconfigured service skips the send without error so local
// environments run without a Resend account.
func (s *EmailService) checkSendPreconditions(to string) (bool, error) {
	if s.config.ResendAPIKey == "" || s.config.FromEmail == "" {
		logger.Warn(fmt.Sprintf("Email sending disabled, skipping send to %s", to))
		return false, nil
	}
	if to == "" {
		return false, fmt.Errorf("recipient email is empty")
	}
	return true, nil
}

func (s *EmailService) send(to, subject, html string) error {
	ok, err := s.checkSendPreconditions(to)
	if err != nil || !ok {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
