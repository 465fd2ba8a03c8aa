package repository

import (
	"fmt"

	"collab-hub-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository handles database operations for group memberships
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create inserts a membership. The unique index on (group_id, user_id) makes
// concurrent duplicate inserts fail with a unique violation; callers detect
// it with IsDuplicateKey.
func (r *MembershipRepository) Create(membership *models.GroupMembership) error {
	return r.db.Create(membership).Error
}

// GetByGroupAndUser retrieves one user's membership in one group
func (r *MembershipRepository) GetByGroupAndUser(groupID, userID uuid.UUID) (*models.GroupMembership, error) {
	var membership models.GroupMembership
	err := r.db.First(&membership, "group_id = ? AND user_id = ?", groupID, userID).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetByGroupID retrieves all memberships for a group with pagination,
// including each member's user record
func (r *MembershipRepository) GetByGroupID(groupID uuid.UUID, limit, offset int) ([]models.GroupMembership, int64, error) {
	var memberships []models.GroupMembership
	var total int64

	query := r.db.Model(&models.GroupMembership{}).Where("group_id = ?", groupID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("User").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&memberships).Error
	if err != nil {
		return nil, 0, err
	}

	return memberships, total, nil
}

// Delete removes a membership. Returns gorm.ErrRecordNotFound when no row
// matched, so a retried removal after a prior success fails cleanly.
func (r *MembershipRepository) Delete(groupID, userID uuid.UUID) error {
	result := r.db.Delete(&models.GroupMembership{}, "group_id = ? AND user_id = ?", groupID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRole updates a membership's role in place
func (r *MembershipRepository) UpdateRole(groupID, userID uuid.UUID, role models.GroupRole) error {
	result := r.db.Model(&models.GroupMembership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TransferLeadership swaps the leader role between two members inside one
// transaction. Both rows are locked FOR UPDATE in a fixed order and
// re-verified under the lock, so no concurrent reader or writer can observe
// a group with zero or two leaders.
func (r *MembershipRepository) TransferLeadership(groupID, fromUserID, toUserID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var locked []models.GroupMembership
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("group_id = ? AND user_id IN ?", groupID, []uuid.UUID{fromUserID, toUserID}).
			Order("user_id ASC").
			Find(&locked).Error
		if err != nil {
			return err
		}
		if len(locked) != 2 {
			return gorm.ErrRecordNotFound
		}

		var current, candidate *models.GroupMembership
		for i := range locked {
			switch locked[i].UserID {
			case fromUserID:
				current = &locked[i]
			case toUserID:
				candidate = &locked[i]
			}
		}
		if current == nil || candidate == nil {
			return gorm.ErrRecordNotFound
		}
		if current.Role != models.GroupRoleLeader {
			return fmt.Errorf("transfer leadership: user %s is no longer the leader", fromUserID)
		}

		if err := tx.Model(&models.GroupMembership{}).
			Where("id = ?", candidate.ID).
			Update("role", models.GroupRoleLeader).Error; err != nil {
			return err
		}
		return tx.Model(&models.GroupMembership{}).
			Where("id = ?", current.ID).
			Update("role", models.GroupRoleMember).Error
	})
}

// CountByRole counts memberships in a group holding a role
func (r *MembershipRepository) CountByRole(groupID uuid.UUID, role models.GroupRole) (int64, error) {
	var count int64
	err := r.db.Model(&models.GroupMembership{}).
		Where("group_id = ? AND role = ?", groupID, role).
		Count(&count).Error
	return count, err
}
