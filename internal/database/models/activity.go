package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ActivityAction is the closed taxonomy of auditable actions
type ActivityAction string

const (
	ActionMemberAdded   ActivityAction = "member_added"
	ActionMemberRemoved ActivityAction = "member_removed"
	ActionRoleChanged   ActivityAction = "role_changed"
	ActionLeaderChanged ActivityAction = "leader_changed"
	ActionGroupCreated  ActivityAction = "group_created"
	ActionGroupUpdated  ActivityAction = "group_updated"
	ActionGroupDeleted  ActivityAction = "group_deleted"
	ActionNoteCreated   ActivityAction = "note_created"
	ActionNoteUpdated   ActivityAction = "note_updated"
	ActionNoteDeleted   ActivityAction = "note_deleted"
	ActionGoalCreated   ActivityAction = "goal_created"
	ActionGoalUpdated   ActivityAction = "goal_updated"
	ActionGoalCompleted ActivityAction = "goal_completed"
	ActionGoalDeleted   ActivityAction = "goal_deleted"
)

// IsValid checks if the ActivityAction is valid
func (a ActivityAction) IsValid() bool {
	switch a {
	case ActionMemberAdded, ActionMemberRemoved, ActionRoleChanged, ActionLeaderChanged,
		ActionGroupCreated, ActionGroupUpdated, ActionGroupDeleted,
		ActionNoteCreated, ActionNoteUpdated, ActionNoteDeleted,
		ActionGoalCreated, ActionGoalUpdated, ActionGoalCompleted, ActionGoalDeleted:
		return true
	}
	return false
}

// ActivityEntry is an append-only audit record of a privileged action.
// Entries are never updated or deleted except by cascading group deletion.
type ActivityEntry struct {
	BaseModel
	GroupID     uuid.UUID       `json:"group_id" gorm:"type:uuid;not null;index:idx_activity_group_created" validate:"required"`
	ActorUserID uuid.UUID       `json:"actor_user_id" gorm:"type:uuid;not null;index" validate:"required"`
	Action      ActivityAction  `json:"action" gorm:"type:varchar(50);not null" validate:"required"`
	EntityType  string          `json:"entity_type" gorm:"not null;size:50" validate:"required,max=50"`
	EntityID    uuid.UUID       `json:"entity_id" gorm:"type:uuid;not null" validate:"required"`
	Details     json.RawMessage `json:"details,omitempty" gorm:"type:jsonb"`

	// Relationships
	Group Group `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Actor User  `json:"actor,omitempty" gorm:"foreignKey:ActorUserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for ActivityEntry
func (ActivityEntry) TableName() string {
	return "activity_entries"
}
