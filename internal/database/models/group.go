package models

import (
	"github.com/google/uuid"
)

// Group represents a collaboration group. CreatedBy is set once at creation
// and never changes; the creator's membership is protected from removal and
// from role changes outside leadership transfer.
type Group struct {
	BaseModel
	Name        string    `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Description string    `json:"description" gorm:"size:500" validate:"max=500"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid;not null;index" validate:"required"`

	// Relationships
	Memberships []GroupMembership `json:"memberships,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Activities  []ActivityEntry   `json:"activities,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Notes       []Note            `json:"notes,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Goals       []Goal            `json:"goals,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Group
func (Group) TableName() string {
	return "groups"
}
