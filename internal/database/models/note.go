package models

import (
	"github.com/google/uuid"
)

// Note represents a shared note within a group
type Note struct {
	BaseModel
	GroupID  uuid.UUID `json:"group_id" gorm:"type:uuid;not null;index" validate:"required"`
	AuthorID uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index" validate:"required"`
	Title    string    `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Body     string    `json:"body" gorm:"type:text"`

	// Relationships
	Group  Group `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Note
func (Note) TableName() string {
	return "notes"
}
