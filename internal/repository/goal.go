package repository

import (
	"collab-hub-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalRepository handles database operations for goals
type GoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create creates a new goal
func (r *GoalRepository) Create(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

// GetByID retrieves a goal by ID
func (r *GoalRepository) GetByID(id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.First(&goal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// GetByGroupID retrieves all goals for a group with pagination
func (r *GoalRepository) GetByGroupID(groupID uuid.UUID, limit, offset int) ([]models.Goal, int64, error) {
	var goals []models.Goal
	var total int64

	query := r.db.Model(&models.Goal{}).Where("group_id = ?", groupID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&goals).Error
	if err != nil {
		return nil, 0, err
	}

	return goals, total, nil
}

// Update updates a goal
func (r *GoalRepository) Update(goal *models.Goal) error {
	return r.db.Save(goal).Error
}

// Delete deletes a goal
func (r *GoalRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Goal{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
