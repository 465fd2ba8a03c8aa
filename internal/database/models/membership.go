package models

import (
	"github.com/google/uuid"
)

// GroupRole represents a member's privilege level within a group
type GroupRole string

const (
	GroupRoleLeader GroupRole = "leader"
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

// IsValid checks if the GroupRole is valid
func (r GroupRole) IsValid() bool {
	switch r {
	case GroupRoleLeader, GroupRoleAdmin, GroupRoleMember:
		return true
	}
	return false
}

// GroupMembership represents one user's standing in one group.
// The unique index on (group_id, user_id) is the store-level guard against
// duplicate concurrent add requests.
type GroupMembership struct {
	BaseModel
	GroupID uuid.UUID `json:"group_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_user;index" validate:"required"`
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_user;index" validate:"required"`
	Role    GroupRole `json:"role" gorm:"type:varchar(20);not null;default:'member'" validate:"required"`

	// Relationships
	Group Group `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GroupMembership
func (GroupMembership) TableName() string {
	return "group_memberships"
}
