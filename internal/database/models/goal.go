package models

import (
	"time"

	"github.com/google/uuid"
)

// GoalStatus defines the lifecycle states of a goal
type GoalStatus string

const (
	GoalStatusOpen      GoalStatus = "open"
	GoalStatusCompleted GoalStatus = "completed"
)

// IsValid checks if the GoalStatus is valid
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusOpen, GoalStatusCompleted:
		return true
	}
	return false
}

// Goal represents a shared goal within a group
type Goal struct {
	BaseModel
	GroupID     uuid.UUID  `json:"group_id" gorm:"type:uuid;not null;index" validate:"required"`
	AuthorID    uuid.UUID  `json:"author_id" gorm:"type:uuid;not null;index" validate:"required"`
	Title       string     `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Description string     `json:"description" gorm:"size:500" validate:"max=500"`
	Status      GoalStatus `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Relationships
	Group  Group `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Goal
func (Goal) TableName() string {
	return "goals"
}
