package statemachine

import (
	"context"
	"fmt"

	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/looplab/fsm"
)

// InvitationFSM wraps a firm invitation with its state machine
type InvitationFSM struct {
	invitation *models.FirmInvitation
	fsm        *fsm.FSM
}

// NewInvitationFSM creates a new invitation state machine
func NewInvitationFSM(invitation *models.FirmInvitation) *InvitationFSM {
	ifsm := &InvitationFSM{
		invitation: invitation,
	}

	ifsm.fsm = fsm.NewFSM(
		invitation.Status,
		fsm.Events{
			// pending → accepted (terminal)
			{Name: "accept", Src: []string{models.InvitationStatusPending}, Dst: models.InvitationStatusAccepted},

			// pending → declined (terminal)
			{Name: "decline", Src: []string{models.InvitationStatusPending}, Dst: models.InvitationStatusDeclined},

			// pending → expired (terminal, lazily triggered on read)
			{Name: "expire", Src: []string{models.InvitationStatusPending}, Dst: models.InvitationStatusExpired},
		},
		fsm.Callbacks{},
	)

	return ifsm
}

// Accept transitions the invitation to accepted state
func (i *InvitationFSM) Accept(ctx context.Context) error {
	if !i.invitation.MayAccept() {
		return fmt.Errorf("invitation cannot be accepted in current state: %s", i.invitation.Status)
	}

	if err := i.fsm.Event(ctx, "accept"); err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}

	i.invitation.Status = i.fsm.Current()
	return nil
}

// Decline transitions the invitation to declined state
func (i *InvitationFSM) Decline(ctx context.Context) error {
	if !i.invitation.MayDecline() {
		return fmt.Errorf("invitation cannot be declined in current state: %s", i.invitation.Status)
	}

	if err := i.fsm.Event(ctx, "decline"); err != nil {
		return fmt.Errorf("failed to decline invitation: %w", err)
	}

	i.invitation.Status = i.fsm.Current()
	return nil
}

// Expire transitions the invitation to expired state. Expiry is observed on
// read; only a pending invitation past its window may expire.
func (i *InvitationFSM) Expire(ctx context.Context) error {
	if i.invitation.Status != models.InvitationStatusPending {
		return fmt.Errorf("invitation cannot expire in current state: %s", i.invitation.Status)
	}

	if err := i.fsm.Event(ctx, "expire"); err != nil {
		return fmt.Errorf("failed to expire invitation: %w", err)
	}

	i.invitation.Status = i.fsm.Current()
	return nil
}

// Current returns the current state
func (i *InvitationFSM) Current() string {
	return i.fsm.Current()
}

// Can checks if a transition is possible
func (i *InvitationFSM) Can(event string) bool {
	return i.fsm.Can(event)
}
