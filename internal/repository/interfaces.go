package repository

import (
	"time"

	"collab-hub-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// GroupRepositoryInterface defines the interface for group repository operations
type GroupRepositoryInterface interface {
	CreateWithLeader(group *models.Group, leaderID uuid.UUID) error
	GetByID(id uuid.UUID) (*models.Group, error)
	GetByUserID(userID uuid.UUID, limit, offset int) ([]models.Group, int64, error)
	Update(group *models.Group) error
	Delete(id uuid.UUID) error
}

// MembershipRepositoryInterface defines the interface for membership repository operations
type MembershipRepositoryInterface interface {
	Create(membership *models.GroupMembership) error
	GetByGroupAndUser(groupID, userID uuid.UUID) (*models.GroupMembership, error)
	GetByGroupID(groupID uuid.UUID, limit, offset int) ([]models.GroupMembership, int64, error)
	Delete(groupID, userID uuid.UUID) error
	UpdateRole(groupID, userID uuid.UUID, role models.GroupRole) error
	TransferLeadership(groupID, fromUserID, toUserID uuid.UUID) error
	CountByRole(groupID uuid.UUID, role models.GroupRole) (int64, error)
}

// ActivityRepositoryInterface defines the interface for activity repository operations
type ActivityRepositoryInterface interface {
	Create(entry *models.ActivityEntry) error
	ListByGroup(groupID uuid.UUID, limit int, before *ActivityCursor) ([]models.ActivityEntry, error)
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetOrCreateByEmail(email, displayName, avatarURL string) (*models.User, error)
}

// ActivityCursor is a keyset pagination position within a group's activity
// feed. Ordering on (created_at, id) keeps "load more" stable while new
// entries are appended concurrently.
type ActivityCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}
