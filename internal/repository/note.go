package repository

import (
	"collab-hub-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteRepository handles database operations for notes
type NoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create creates a new note
func (r *NoteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

// GetByID retrieves a note by ID
func (r *NoteRepository) GetByID(id uuid.UUID) (*models.Note, error) {
	var note models.Note
	err := r.db.First(&note, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// GetByGroupID retrieves all notes for a group with pagination
func (r *NoteRepository) GetByGroupID(groupID uuid.UUID, limit, offset int) ([]models.Note, int64, error) {
	var notes []models.Note
	var total int64

	query := r.db.Model(&models.Note{}).Where("group_id = ?", groupID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

// Update updates a note
func (r *NoteRepository) Update(note *models.Note) error {
	return r.db.Save(note).Error
}

// Delete deletes a note
func (r *NoteRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Note{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
