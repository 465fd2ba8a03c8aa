package repository

import (
	"collab-hub-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository handles database operations for the activity audit log
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an activity entry. Entries are insert-only; there is no
// update or single-row delete path.
func (r *ActivityRepository) Create(entry *models.ActivityEntry) error {
	return r.db.Create(entry).Error
}

// ListByGroup returns up to limit entries for a group, newest first. When
// before is non-nil only entries strictly older than that position are
// returned, so pages stay stable while new entries arrive.
func (r *ActivityRepository) ListByGroup(groupID uuid.UUID, limit int, before *ActivityCursor) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry

	query := r.db.Where("group_id = ?", groupID)
	if before != nil {
		query = query.Where("(created_at, id) < (?, ?)", before.CreatedAt, before.ID)
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
