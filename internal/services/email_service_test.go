package services

import (
	"context"
	"testing"
	"time"

	"github.com/ausverity/ausverity-api/internal/config"
	"github.com/ausverity/ausverity-api/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestEmailService_checkSendPreconditions(t *testing.T) {
	logger.Setup("test")

	// Unconfigured service skips the send without error
	service := NewEmailService(&config.Config{})
	ok, err := service.checkSendPreconditions("user@example.com")
	assert.False(t, ok)
	assert.Nil(t, err)

	// Configured service with a valid recipient proceeds
	service = NewEmailService(&config.Config{
		ResendAPIKey: "test_key",
		FromEmail:    "noreply@ausverity.com.au",
	})
	ok, err = service.checkSendPreconditions("user@example.com")
	assert.True(t, ok)
	assert.Nil(t, err)

	// Empty recipient is an error
	ok, err = service.checkSendPreconditions("")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestEmailService_renderTemplate(t *testing.T) {
	service := NewEmailService(&config.Config{SiteURL: "https://ausverity.com.au"})

	body, err := service.renderTemplate("invitation.html", struct {
		Name      string
		FirmName  string
		ExpiresAt string
		SiteURL   string
	}{
		Name:      "Jane Citizen",
		FirmName:  "Smith & Partners",
		ExpiresAt: "7 September 2026",
		SiteURL:   "https://ausverity.com.au",
	})
	assert.NoError(t, err)
	assert.Contains(t, body, "Jane Citizen")
	assert.Contains(t, body, "Smith &amp; Partners")

	_, err = service.renderTemplate("missing.html", nil)
	assert.Error(t, err)
}

func TestEmailService_SendInvitationUnconfigured(t *testing.T) {
	logger.Setup("test")
	service := NewEmailService(&config.Config{})

	// Renders the template and skips the network send
	err := service.SendInvitationEmail(context.Background(),
		"lawyer@example.com", "Jane Citizen", "Smith & Partners", time.Now().Add(7*24*time.Hour))
	assert.NoError(t, err)
}
