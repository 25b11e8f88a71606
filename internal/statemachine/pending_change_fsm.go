package statemachine

import (
	"context"
	"fmt"

	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/looplab/fsm"
)

// PendingChangeFSM wraps a pending change with its state machine
type PendingChangeFSM struct {
	change *models.PendingChange
	fsm    *fsm.FSM
}

// NewPendingChangeFSM creates a new pending change state machine
func NewPendingChangeFSM(change *models.PendingChange) *PendingChangeFSM {
	cfsm := &PendingChangeFSM{
		change: change,
	}

	cfsm.fsm = fsm.NewFSM(
		change.Status,
		fsm.Events{
			// pending → approved (terminal)
			{Name: "approve", Src: []string{models.ChangeStatusPending}, Dst: models.ChangeStatusApproved},

			// pending → rejected (terminal)
			{Name: "reject", Src: []string{models.ChangeStatusPending}, Dst: models.ChangeStatusRejected},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Approve transitions the change to approved state
func (c *PendingChangeFSM) Approve(ctx context.Context) error {
	if !c.change.MayApprove() {
		return fmt.Errorf("change cannot be approved in current state: %s", c.change.Status)
	}

	if err := c.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve change: %w", err)
	}

	c.change.Status = c.fsm.Current()
	return nil
}

// Reject transitions the change to rejected state
func (c *PendingChangeFSM) Reject(ctx context.Context) error {
	if !c.change.MayReject() {
		return fmt.Errorf("change cannot be rejected in current state: %s", c.change.Status)
	}

	if err := c.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject change: %w", err)
	}

	c.change.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *PendingChangeFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *PendingChangeFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
