package repository

import (
	"errors"

	"collab-hub-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateByEmail returns the user with the given email, provisioning the
// row on first login. A concurrent first login loses the insert race and
// falls back to the existing row.
func (r *UserRepository) GetOrCreateByEmail(email, displayName, avatarURL string) (*models.User, error) {
	user, err := r.GetByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.User{
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
	if err := r.Create(created); err != nil {
		if IsDuplicateKey(err) {
			return r.GetByEmail(email)
		}
		return nil, err
	}
	return created, nil
}
