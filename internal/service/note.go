package service

import (
	"errors"
	"fmt"

	"collab-hub-backend/internal/database/models"
	apperrors "collab-hub-backend/internal/errors"
	"collab-hub-backend/internal/logger"
	"collab-hub-backend/internal/policy"
	"collab-hub-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteService handles shared notes within a group. Notes are plain content:
// any member can create them, and authors manage their own.
type NoteService struct {
	repo           *repository.NoteRepository
	membershipRepo repository.MembershipRepositoryInterface
	activity       ActivityRecorder
	validator      *validator.Validate
	log            *logger.Logger
}

// NewNoteService creates a new note service
func NewNoteService(repo *repository.NoteRepository, membershipRepo repository.MembershipRepositoryInterface, activity ActivityRecorder, validator *validator.Validate, log *logger.Logger) *NoteService {
	return &NoteService{
		repo:           repo,
		membershipRepo: membershipRepo,
		activity:       activity,
		validator:      validator,
		log:            log,
	}
}

// CreateNoteRequest represents the request to create a note
type CreateNoteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body"`
}

// UpdateNoteRequest represents the request to update a note
type UpdateNoteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body"`
}

// NoteResponse represents the response for note operations
type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"group_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// NoteListResponse represents a paginated list of notes
type NoteListResponse struct {
	Notes    []NoteResponse `json:"notes"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Create creates a note in the group
func (s *NoteService) Create(actorID, groupID uuid.UUID, req *CreateNoteRequest) (*NoteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	if err := s.requireMember(groupID, actorID); err != nil {
		return nil, err
	}

	note := &models.Note{
		GroupID:  groupID,
		AuthorID: actorID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := s.repo.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.recordActivity(actorID, groupID, models.ActionNoteCreated, note.ID, map[string]interface{}{
		"title": note.Title,
	})

	return toNoteResponse(note), nil
}

// GetByGroup retrieves the group's notes with pagination
func (s *NoteService) GetByGroup(actorID, groupID uuid.UUID, page, pageSize int) (*NoteListResponse, error) {
	if err := s.requireMember(groupID, actorID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	notes, total, err := s.repo.GetByGroupID(groupID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}

	responses := make([]NoteResponse, len(notes))
	for i := range notes {
		responses[i] = *toNoteResponse(&notes[i])
	}

	return &NoteListResponse{
		Notes:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update updates a note. Only the author may edit it.
func (s *NoteService) Update(actorID, noteID uuid.UUID, req *UpdateNoteRequest) (*NoteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}

	note, err := s.getOwned(actorID, noteID)
	if err != nil {
		return nil, err
	}

	note.Title = req.Title
	note.Body = req.Body
	if err := s.repo.Update(note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	s.recordActivity(actorID, note.GroupID, models.ActionNoteUpdated, note.ID, map[string]interface{}{
		"title": note.Title,
	})

	return toNoteResponse(note), nil
}

// Delete deletes a note. Only the author may delete it.
func (s *NoteService) Delete(actorID, noteID uuid.UUID) error {
	note, err := s.getOwned(actorID, noteID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(note.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.recordActivity(actorID, note.GroupID, models.ActionNoteDeleted, note.ID, map[string]interface{}{
		"title": note.Title,
	})

	return nil
}

func (s *NoteService) getOwned(actorID, noteID uuid.UUID) (*models.Note, error) {
	note, err := s.repo.GetByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note.AuthorID != actorID {
		return nil, apperrors.NewAuthorizationError("only the author can modify this note")
	}
	return note, nil
}

func (s *NoteService) requireMember(groupID, actorID uuid.UUID) error {
	membership, err := s.membershipRepo.GetByGroupAndUser(groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotGroupMember
		}
		return fmt.Errorf("failed to resolve actor membership: %w", err)
	}
	if d := policy.CanPerform(policy.Request{ActorRole: membership.Role, Action: policy.ActionView}); !d.Allowed {
		return apperrors.ErrNotGroupMember
	}
	return nil
}

func (s *NoteService) recordActivity(actorID, groupID uuid.UUID, action models.ActivityAction, entityID uuid.UUID, details interface{}) {
	if err := s.activity.Record(actorID, groupID, action, "note", entityID, details); err != nil {
		s.log.WithFields(map[string]interface{}{
			"group_id": groupID,
			"actor_id": actorID,
			"action":   action,
		}).Warnf("audit write failed: %v", apperrors.NewAuditWriteError(err))
	}
}

func toNoteResponse(note *models.Note) *NoteResponse {
	return &NoteResponse{
		ID:        note.ID,
		GroupID:   note.GroupID,
		AuthorID:  note.AuthorID,
		Title:     note.Title,
		Body:      note.Body,
		CreatedAt: note.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: note.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
