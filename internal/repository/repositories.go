package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User          UserRepository
	Lawyer        LawyerRepository
	Firm          FirmRepository
	PendingChange PendingChangeRepository
	Invitation    InvitationRepository
	History       RelationshipHistoryRepository
	Review        ReviewRepository
	Notification  NotificationRepository
	RefreshToken  RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Lawyer:        NewLawyerRepository(db),
		Firm:          NewFirmRepository(db),
		PendingChange: NewPendingChangeRepository(db),
		Invitation:    NewInvitationRepository(db),
		History:       NewRelationshipHistoryRepository(db),
		Review:        NewReviewRepository(db),
		Notification:  NewNotificationRepository(db),
		RefreshToken:  NewRefreshTokenRepository(db),
	}
}
