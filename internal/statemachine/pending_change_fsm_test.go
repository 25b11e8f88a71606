package statemachine

import (
	"context"
	"testing"

	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPendingChangeFSM_ApproveFromPending(t *testing.T) {
	change := &models.PendingChange{Status: models.ChangeStatusPending}
	cfsm := NewPendingChangeFSM(change)

	err := cfsm.Approve(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.ChangeStatusApproved, change.Status)
	assert.Equal(t, models.ChangeStatusApproved, cfsm.Current())
}

func TestPendingChangeFSM_RejectFromPending(t *testing.T) {
	change := &models.PendingChange{Status: models.ChangeStatusPending}
	cfsm := NewPendingChangeFSM(change)

	err := cfsm.Reject(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.ChangeStatusRejected, change.Status)
}

func TestPendingChangeFSM_ApprovedIsTerminal(t *testing.T) {
	change := &models.PendingChange{Status: models.ChangeStatusApproved}
	cfsm := NewPendingChangeFSM(change)

	assert.Error(t, cfsm.Approve(context.Background()))
	assert.Error(t, cfsm.Reject(context.Background()))
	assert.Equal(t, models.ChangeStatusApproved, change.Status)
}

func TestPendingChangeFSM_RejectedIsTerminal(t *testing.T) {
	change := &models.PendingChange{Status: models.ChangeStatusRejected}
	cfsm := NewPendingChangeFSM(change)

	assert.Error(t, cfsm.Approve(context.Background()))
	assert.Error(t, cfsm.Reject(context.Background()))
	assert.Equal(t, models.ChangeStatusRejected, change.Status)
}

func TestPendingChangeFSM_Can(t *testing.T) {
	pending := NewPendingChangeFSM(&models.PendingChange{Status: models.ChangeStatusPending})
	assert.True(t, pending.Can("approve"))
	assert.True(t, pending.Can("reject"))

	approved := NewPendingChangeFSM(&models.PendingChange{Status: models.ChangeStatusApproved})
	assert.False(t, approved.Can("approve"))
	assert.False(t, approved.Can("reject"))
}
