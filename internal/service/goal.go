package service

import (
	"errors"
	"fmt"
	"time"

	"collab-hub-backend/internal/database/models"
	apperrors "collab-hub-backend/internal/errors"
	"collab-hub-backend/internal/logger"
	"collab-hub-backend/internal/policy"
	"collab-hub-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalService handles shared goals within a group
type GoalService struct {
	repo           *repository.GoalRepository
	membershipRepo repository.MembershipRepositoryInterface
	activity       ActivityRecorder
	validator      *validator.Validate
	log            *logger.Logger
}

// NewGoalService creates a new goal service
func NewGoalService(repo *repository.GoalRepository, membershipRepo repository.MembershipRepositoryInterface, activity ActivityRecorder, validator *validator.Validate, log *logger.Logger) *GoalService {
	return &GoalService{
		repo:           repo,
		membershipRepo: membershipRepo,
		activity:       activity,
		validator:      validator,
		log:            log,
	}
}

// CreateGoalRequest represents the request to create a goal
type CreateGoalRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=500"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateGoalRequest represents the request to update a goal
type UpdateGoalRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=500"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// GoalResponse represents the response for goal operations
type GoalResponse struct {
	ID          uuid.UUID  `json:"id"`
	GroupID     uuid.UUID  `json:"group_id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

// GoalListResponse represents a paginated list of goals
type GoalListResponse struct {
	Goals    []GoalResponse `json:"goals"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Create creates a goal in the group
func (s *GoalService) Create(actorID, groupID uuid.UUID, req *CreateGoalRequest) (*GoalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	if err := s.requireMember(groupID, actorID); err != nil {
		return nil, err
	}

	goal := &models.Goal{
		GroupID:     groupID,
		AuthorID:    actorID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.GoalStatusOpen,
		DueDate:     req.DueDate,
	}
	if err := s.repo.Create(goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.recordActivity(actorID, groupID, models.ActionGoalCreated, goal.ID, map[string]interface{}{
		"title": goal.Title,
	})

	return toGoalResponse(goal), nil
}

// GetByGroup retrieves the group's goals with pagination
func (s *GoalService) GetByGroup(actorID, groupID uuid.UUID, page, pageSize int) (*GoalListResponse, error) {
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
	goals, total, err := s.repo.GetByGroupID(groupID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}

	responses := make([]GoalResponse, len(goals))
	for i := range goals {
		responses[i] = *toGoalResponse(&goals[i])
	}

	return &GoalListResponse{
		Goals:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update updates a goal's content. Any member of the owning group may edit.
func (s *GoalService) Update(actorID, goalID uuid.UUID, req *UpdateGoalRequest) (*GoalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}

	goal, err := s.getVisible(actorID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Title = req.Title
	goal.Description = req.Description
	goal.DueDate = req.DueDate
	if err := s.repo.Update(goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	s.recordActivity(actorID, goal.GroupID, models.ActionGoalUpdated, goal.ID, map[string]interface{}{
		"title": goal.Title,
	})

	return toGoalResponse(goal), nil
}

// Complete marks a goal as completed
func (s *GoalService) Complete(actorID, goalID uuid.UUID) (*GoalResponse, error) {
	goal, err := s.getVisible(actorID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status != models.GoalStatusCompleted {
		now := time.Now()
		goal.Status = models.GoalStatusCompleted
		goal.CompletedAt = &now
		if err := s.repo.Update(goal); err != nil {
			return nil, fmt.Errorf("failed to complete goal: %w", err)
		}

		s.recordActivity(actorID, goal.GroupID, models.ActionGoalCompleted, goal.ID, map[string]interface{}{
			"title": goal.Title,
		})
	}

	return toGoalResponse(goal), nil
}

// Delete deletes a goal. Only the author may delete it.
func (s *GoalService) Delete(actorID, goalID uuid.UUID) error {
	goal, err := s.getVisible(actorID, goalID)
	if err != nil {
		return err
	}
	if goal.AuthorID != actorID {
		return apperrors.NewAuthorizationError("only the author can delete this goal")
	}

	if err := s.repo.Delete(goal.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrGoalNotFound
		}
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	s.recordActivity(actorID, goal.GroupID, models.ActionGoalDeleted, goal.ID, map[string]interface{}{
		"title": goal.Title,
	})

	return nil
}

func (s *GoalService) getVisible(actorID, goalID uuid.UUID) (*models.Goal, error) {
	goal, err := s.repo.GetByID(goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	if err := s.requireMember(goal.GroupID, actorID); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) requireMember(groupID, actorID uuid.UUID) error {
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

func (s *GoalService) recordActivity(actorID, groupID uuid.UUID, action models.ActivityAction, entityID uuid.UUID, details interface{}) {
	if err := s.activity.Record(actorID, groupID, action, "goal", entityID, details); err != nil {
		s.log.WithFields(map[string]interface{}{
			"group_id": groupID,
			"actor_id": actorID,
			"action":   action,
		}).Warnf("audit write failed: %v", apperrors.NewAuditWriteError(err))
	}
}

func toGoalResponse(goal *models.Goal) *GoalResponse {
	return &GoalResponse{
		ID:          goal.ID,
		GroupID:     goal.GroupID,
		AuthorID:    goal.AuthorID,
		Title:       goal.Title,
		Description: goal.Description,
		Status:      string(goal.Status),
		DueDate:     goal.DueDate,
		CompletedAt: goal.CompletedAt,
		CreatedAt:   goal.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   goal.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
