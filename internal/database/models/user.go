package models

// User represents an authenticated account. Rows are provisioned on first
// login from the identity provider's verified email.
type User struct {
	BaseModel
	Email       string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	DisplayName string `json:"display_name" gorm:"not null;size:200" validate:"required,max=200"`
	AvatarURL   string `json:"avatar_url" gorm:"size:500"`

	// Relationships
	Memberships []GroupMembership `json:"memberships,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
