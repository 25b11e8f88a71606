package services

import (
	"context"
	"testing"
	"time"

	"github.com/ausverity/ausverity-api/internal/authz"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockInvitationRepo struct {
	repository.InvitationRepository
	mockFindByID                   func(ctx context.Context, id uint) (*models.FirmInvitation, error)
	mockFindPendingByFirmAndLawyer func(ctx context.Context, firmID, lawyerID uint) (*models.FirmInvitation, error)
	mockUpdateStatus               func(ctx context.Context, id uint, from, to string) (int64, error)
}

func (m *mockInvitationRepo) FindByID(ctx context.Context, id uint) (*models.FirmInvitation, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockInvitationRepo) FindPendingByFirmAndLawyer(ctx context.Context, firmID, lawyerID uint) (*models.FirmInvitation, error) {
	return m.mockFindPendingByFirmAndLawyer(ctx, firmID, lawyerID)
}

func (m *mockInvitationRepo) UpdateStatus(ctx context.Context, id uint, from, to string) (int64, error) {
	return m.mockUpdateStatus(ctx, id, from, to)
}

type mockHistoryRepo struct {
	repository.RelationshipHistoryRepository
	mockFindByLawyer func(ctx context.Context, lawyerID uint) ([]models.RelationshipHistory, error)
}

func (m *mockHistoryRepo) FindByLawyer(ctx context.Context, lawyerID uint) ([]models.RelationshipHistory, error) {
	return m.mockFindByLawyer(ctx, lawyerID)
}

func newMembershipService(
	invitationRepo repository.InvitationRepository,
	historyRepo repository.RelationshipHistoryRepository,
	lawyerRepo repository.LawyerRepository,
	firmRepo repository.FirmRepository,
	userRepo repository.UserRepository,
) *MembershipService {
	return NewMembershipService(nil, invitationRepo, historyRepo, lawyerRepo, firmRepo, userRepo,
		nil, nil, nil, nil, 7*24*time.Hour)
}

func TestMembershipService_Invite_FirmNotFound(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newMembershipService(nil, nil, nil, firmRepo, nil)

	actor := authz.Actor{UserID: 5, Role: models.RoleFirmOwner}
	_, err := service.Invite(context.Background(), actor, 9, "jane@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMembershipService_Invite_NotFirmOwner(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			return &models.LawFirm{ID: id, OwnerID: 5}, nil
		},
	}
	service := newMembershipService(nil, nil, nil, firmRepo, nil)

	actor := authz.Actor{UserID: 6, Role: models.RoleFirmOwner}
	_, err := service.Invite(context.Background(), actor, 9, "jane@example.com")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMembershipService_Invite_NoAccountForEmail(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			return &models.LawFirm{ID: id, OwnerID: 5}, nil
		},
	}
	userRepo := &mockUserRepo{
		mockFindByEmailWithLawyer: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newMembershipService(nil, nil, nil, firmRepo, userRepo)

	actor := authz.Actor{UserID: 5, Role: models.RoleFirmOwner}
	_, err := service.Invite(context.Background(), actor, 9, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no account registered")
}

func TestMembershipService_Invite_NoLawyerProfile(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			return &models.LawFirm{ID: id, OwnerID: 5}, nil
		},
	}
	userRepo := &mockUserRepo{
		mockFindByEmailWithLawyer: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 7, Email: email, Role: models.RoleClient}, nil
		},
	}
	service := newMembershipService(nil, nil, nil, firmRepo, userRepo)

	actor := authz.Actor{UserID: 5, Role: models.RoleFirmOwner}
	_, err := service.Invite(context.Background(), actor, 9, "client@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no lawyer profile")
}

func TestMembershipService_Invite_AlreadyMemberOfFirm(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			return &models.LawFirm{ID: id, OwnerID: 5}, nil
		},
	}
	sameFirm := uint(9)
	userRepo := &mockUserRepo{
		mockFindByEmailWithLawyer: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:     7,
				Email:  email,
				Lawyer: &models.Lawyer{ID: 3, UserID: 7, FirmID: &sameFirm},
			}, nil
		},
	}
	service := newMembershipService(nil, nil, nil, firmRepo, userRepo)

	actor := authz.Actor{UserID: 5, Role: models.RoleFirmOwner}
	_, err := service.Invite(context.Background(), actor, 9, "jane@example.com")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "already a member of this firm")
}

func TestMembershipService_Invite_PendingInvitationExists(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			return &models.LawFirm{ID: id, OwnerID: 5}, nil
		},
	}
	// Affiliation with a different firm does not block the invite.
	otherFirm := uint(2)
	userRepo := &mockUserRepo{
		mockFindByEmailWithLawyer: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:     7,
				Email:  email,
				Lawyer: &models.Lawyer{ID: 3, UserID: 7, FirmID: &otherFirm},
			}, nil
		},
	}
	invitationRepo := &mockInvitationRepo{
		mockFindPendingByFirmAndLawyer: func(ctx context.Context, firmID, lawyerID uint) (*models.FirmInvitation, error) {
			return &models.FirmInvitation{
				FirmID:    firmID,
				LawyerID:  lawyerID,
				Status:    models.InvitationStatusPending,
				ExpiresAt: time.Now().Add(48 * time.Hour),
			}, nil
		},
	}
	service := newMembershipService(invitationRepo, nil, nil, firmRepo, userRepo)

	actor := authz.Actor{UserID: 5, Role: models.RoleFirmOwner}
	_, err := service.Invite(context.Background(), actor, 9, "jane@example.com")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "pending invitation already exists")
}

func TestMembershipService_Accept_NotInvitedLawyer(t *testing.T) {
	invitationRepo := &mockInvitationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.FirmInvitation, error) {
			return &models.FirmInvitation{
				ID:        id,
				FirmID:    9,
				LawyerID:  3,
				Status:    models.InvitationStatusPending,
				ExpiresAt: time.Now().Add(48 * time.Hour),
			}, nil
		},
	}
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7}, nil
		},
	}
	service := newMembershipService(invitationRepo, nil, lawyerRepo, nil, nil)

	actor := authz.Actor{UserID: 8, Role: models.RoleLawyer}
	_, err := service.Accept(context.Background(), actor, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMembershipService_Accept_Expired(t *testing.T) {
	var flippedFrom, flippedTo string
	invitationRepo := &mockInvitationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.FirmInvitation, error) {
			return &models.FirmInvitation{
				ID:        id,
				FirmID:    9,
				LawyerID:  3,
				Status:    models.InvitationStatusPending,
				ExpiresAt: time.Now().Add(-time.Hour),
			}, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, from, to string) (int64, error) {
			flippedFrom, flippedTo = from, to
			return 1, nil
		},
	}
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7}, nil
		},
	}
	service := newMembershipService(invitationRepo, nil, lawyerRepo, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	_, err := service.Accept(context.Background(), actor, 1)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, models.InvitationStatusPending, flippedFrom)
	assert.Equal(t, models.InvitationStatusExpired, flippedTo)
}

func TestMembershipService_Decline_Expired(t *testing.T) {
	flipped := false
	invitationRepo := &mockInvitationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.FirmInvitation, error) {
			return &models.FirmInvitation{
				ID:        id,
				FirmID:    9,
				LawyerID:  3,
				Status:    models.InvitationStatusPending,
				ExpiresAt: time.Now().Add(-48 * time.Hour),
			}, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, from, to string) (int64, error) {
			flipped = true
			return 1, nil
		},
	}
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7}, nil
		},
	}
	service := newMembershipService(invitationRepo, nil, lawyerRepo, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	_, err := service.Decline(context.Background(), actor, 1)
	assert.ErrorIs(t, err, ErrExpired)
	assert.True(t, flipped)
}

func TestMembershipService_Accept_AlreadyDeclined(t *testing.T) {
	invitationRepo := &mockInvitationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.FirmInvitation, error) {
			return &models.FirmInvitation{
				ID:       id,
				FirmID:   9,
				LawyerID: 3,
				Status:   models.InvitationStatusDeclined,
			}, nil
		},
	}
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7}, nil
		},
	}
	service := newMembershipService(invitationRepo, nil, lawyerRepo, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	_, err := service.Accept(context.Background(), actor, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMembershipService_Decline_InvitationNotFound(t *testing.T) {
	invitationRepo := &mockInvitationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.FirmInvitation, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newMembershipService(invitationRepo, nil, nil, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	_, err := service.Decline(context.Background(), actor, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMembershipService_Leave_NotAffiliated(t *testing.T) {
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7}, nil
		},
	}
	service := newMembershipService(nil, nil, lawyerRepo, nil, nil)

	actor := authz.Actor{UserID: 7, Role: models.RoleLawyer}
	err := service.Leave(context.Background(), actor, 3)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMembershipService_Remove_LawyerNotMember(t *testing.T) {
	firmRepo := &mockFirmRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LawFirm, error) {
			return &models.LawFirm{ID: id, OwnerID: 5}, nil
		},
	}
	otherFirm := uint(2)
	lawyerRepo := &mockLawyerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lawyer, error) {
			return &models.Lawyer{ID: id, UserID: 7, FirmID: &otherFirm}, nil
		},
	}
	service := newMembershipService(nil, nil, lawyerRepo, firmRepo, nil)

	actor := authz.Actor{UserID: 5, Role: models.RoleFirmOwner}
	err := service.Remove(context.Background(), actor, 9, 3)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, err.Error(), "not a member of this firm")
}

func TestClosesAffiliation(t *testing.T) {
	otherFirm := uint(2)
	sameFirm := uint(9)

	assert.False(t, closesAffiliation(&models.Lawyer{ID: 3}, 9), "unaffiliated lawyer has no interval to close")
	assert.False(t, closesAffiliation(&models.Lawyer{ID: 3, FirmID: &sameFirm}, 9), "joining the current firm closes nothing")
	assert.True(t, closesAffiliation(&models.Lawyer{ID: 3, FirmID: &otherFirm}, 9), "switching firms closes the old interval")
}

func TestMembershipService_HistoryForLawyer(t *testing.T) {
	historyRepo := &mockHistoryRepo{
		mockFindByLawyer: func(ctx context.Context, lawyerID uint) ([]models.RelationshipHistory, error) {
			return []models.RelationshipHistory{
				{LawyerID: lawyerID, FirmID: 9, StartDate: time.Now().Add(-48 * time.Hour), EndDate: time.Now()},
			}, nil
		},
	}
	service := newMembershipService(nil, historyRepo, nil, nil, nil)

	history, err := service.HistoryForLawyer(context.Background(), 3)
	assert.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, uint(9), history[0].FirmID)
}
