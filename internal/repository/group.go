package repository

import (
	"collab-hub-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateWithLeader inserts the group and its creator's leader membership in
// one transaction, so no group ever exists without exactly one leader.
func (r *GroupRepository) CreateWithLeader(group *models.Group, leaderID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		membership := &models.GroupMembership{
			GroupID: group.ID,
			UserID:  leaderID,
			Role:    models.GroupRoleLeader,
		}
		return tx.Create(membership).Error
	})
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(id uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := r.db.First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetByUserID retrieves all groups a user belongs to, with pagination
func (r *GroupRepository) GetByUserID(userID uuid.UUID, limit, offset int) ([]models.Group, int64, error) {
	var groups []models.Group
	var total int64

	query := r.db.Model(&models.Group{}).
		Joins("JOIN group_memberships ON group_memberships.group_id = groups.id").
		Where("group_memberships.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Find(&groups).Error
	if err != nil {
		return nil, 0, err
	}

	return groups, total, nil
}

// Update updates a group
func (r *GroupRepository) Update(group *models.Group) error {
	return r.db.Save(group).Error
}

// Delete deletes a group. Memberships, activity entries, notes, and goals
// cascade at the constraint level.
func (r *GroupRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Group{}, "id = ?", id).Error
}
