package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func pendingInvitation() *models.FirmInvitation {
	return &models.FirmInvitation{
		Status:    models.InvitationStatusPending,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func TestInvitationFSM_AcceptFromPending(t *testing.T) {
	invitation := pendingInvitation()
	ifsm := NewInvitationFSM(invitation)

	err := ifsm.Accept(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.InvitationStatusAccepted, invitation.Status)
}

func TestInvitationFSM_DeclineFromPending(t *testing.T) {
	invitation := pendingInvitation()
	ifsm := NewInvitationFSM(invitation)

	err := ifsm.Decline(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.InvitationStatusDeclined, invitation.Status)
}

func TestInvitationFSM_ExpireFromPending(t *testing.T) {
	invitation := pendingInvitation()
	ifsm := NewInvitationFSM(invitation)

	err := ifsm.Expire(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.InvitationStatusExpired, invitation.Status)
}

func TestInvitationFSM_AcceptPastExpiry(t *testing.T) {
	invitation := pendingInvitation()
	invitation.ExpiresAt = time.Now().Add(-time.Hour)
	ifsm := NewInvitationFSM(invitation)

	// Still pending in the database, but the window has elapsed
	assert.Error(t, ifsm.Accept(context.Background()))
	assert.Error(t, ifsm.Decline(context.Background()))
	assert.Equal(t, models.InvitationStatusPending, invitation.Status)

	// Expiry is the only transition left
	assert.NoError(t, ifsm.Expire(context.Background()))
	assert.Equal(t, models.InvitationStatusExpired, invitation.Status)
}

func TestInvitationFSM_TerminalStates(t *testing.T) {
	for _, status := range []string{
		models.InvitationStatusAccepted,
		models.InvitationStatusDeclined,
		models.InvitationStatusExpired,
	} {
		invitation := &models.FirmInvitation{Status: status}
		ifsm := NewInvitationFSM(invitation)

		assert.Error(t, ifsm.Accept(context.Background()))
		assert.Error(t, ifsm.Decline(context.Background()))
		assert.Error(t, ifsm.Expire(context.Background()))
		assert.Equal(t, status, invitation.Status)
	}
}
