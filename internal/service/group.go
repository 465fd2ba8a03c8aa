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

// GroupService handles group lifecycle: creation (with its first leader),
// metadata updates, and deletion.
type GroupService struct {
	repo           repository.GroupRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	activity       ActivityRecorder
	validator      *validator.Validate
	log            *logger.Logger
}

// NewGroupService creates a new group service
func NewGroupService(repo repository.GroupRepositoryInterface, membershipRepo repository.MembershipRepositoryInterface, activity ActivityRecorder, validator *validator.Validate, log *logger.Logger) *GroupService {
	return &GroupService{
		repo:           repo,
		membershipRepo: membershipRepo,
		activity:       activity,
		validator:      validator,
		log:            log,
	}
}

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateGroupRequest represents the request to update group metadata
type UpdateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// GroupResponse represents the response for group operations
type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// GroupListResponse represents a paginated list of groups
type GroupListResponse struct {
	Groups   []GroupResponse `json:"groups"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// Create creates a group with the actor as creator and sole leader. The
// group row and the leader membership are inserted atomically, so the
// single-leader invariant holds from the first moment the group exists.
func (s *GroupService) Create(actorID uuid.UUID, req *CreateGroupRequest) (*GroupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actorID,
	}
	if err := s.repo.CreateWithLeader(group, actorID); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.recordActivity(actorID, group.ID, models.ActionGroupCreated, "group", group.ID, map[string]interface{}{
		"name": group.Name,
	})

	return toGroupResponse(group), nil
}

// GetByID retrieves a group visible to the actor (any member)
func (s *GroupService) GetByID(actorID, groupID uuid.UUID) (*GroupResponse, error) {
	group, actorRole, err := s.groupAndActorRole(groupID, actorID)
	if err != nil {
		return nil, err
	}
	if d := policy.CanPerform(policy.Request{ActorRole: actorRole, Action: policy.ActionView}); !d.Allowed {
		return nil, apperrors.ErrNotGroupMember
	}
	return toGroupResponse(group), nil
}

// GetForUser retrieves all groups the actor belongs to, with pagination
func (s *GroupService) GetForUser(actorID uuid.UUID, page, pageSize int) (*GroupListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	groups, total, err := s.repo.GetByUserID(actorID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}

	responses := make([]GroupResponse, len(groups))
	for i := range groups {
		responses[i] = *toGroupResponse(&groups[i])
	}

	return &GroupListResponse{
		Groups:   responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update changes group metadata. Allowed for the leader and admins.
func (s *GroupService) Update(actorID, groupID uuid.UUID, req *UpdateGroupRequest) (*GroupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}

	group, actorRole, err := s.groupAndActorRole(groupID, actorID)
	if err != nil {
		return nil, err
	}
	d := policy.CanPerform(policy.Request{ActorRole: actorRole, Action: policy.ActionEditGroup})
	if !d.Allowed {
		if actorRole == "" {
			return nil, apperrors.ErrNotGroupMember
		}
		return nil, apperrors.NewAuthorizationError(d.Reason)
	}

	group.Name = req.Name
	group.Description = req.Description
	if err := s.repo.Update(group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	s.recordActivity(actorID, group.ID, models.ActionGroupUpdated, "group", group.ID, map[string]interface{}{
		"name": group.Name,
	})

	return toGroupResponse(group), nil
}

// Delete removes the group. Leader only; memberships, activity entries,
// notes, and goals cascade with the row.
func (s *GroupService) Delete(actorID, groupID uuid.UUID) error {
	group, actorRole, err := s.groupAndActorRole(groupID, actorID)
	if err != nil {
		return err
	}
	d := policy.CanPerform(policy.Request{ActorRole: actorRole, Action: policy.ActionDeleteGroup})
	if !d.Allowed {
		if actorRole == "" {
			return apperrors.ErrNotGroupMember
		}
		return apperrors.NewAuthorizationError(d.Reason)
	}

	if err := s.repo.Delete(group.ID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	// No audit entry: the group's activity rows cascade away with the group,
	// so an entry written here could never be read.
	s.log.WithField("group_id", group.ID).Infof("group %q deleted", group.Name)
	return nil
}

func (s *GroupService) groupAndActorRole(groupID, actorID uuid.UUID) (*models.Group, models.GroupRole, error) {
	group, err := s.repo.GetByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrGroupNotFound
		}
		return nil, "", fmt.Errorf("failed to get group: %w", err)
	}

	membership, err := s.membershipRepo.GetByGroupAndUser(groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return group, "", nil
		}
		return nil, "", fmt.Errorf("failed to resolve actor membership: %w", err)
	}
	return group, membership.Role, nil
}

func (s *GroupService) recordActivity(actorID, groupID uuid.UUID, action models.ActivityAction, entityType string, entityID uuid.UUID, details interface{}) {
	if err := s.activity.Record(actorID, groupID, action, entityType, entityID, details); err != nil {
		s.log.WithFields(map[string]interface{}{
			"group_id": groupID,
			"actor_id": actorID,
			"action":   action,
		}).Warnf("audit write failed: %v", apperrors.NewAuditWriteError(err))
	}
}

func toGroupResponse(group *models.Group) *GroupResponse {
	return &GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		CreatedBy:   group.CreatedBy,
		CreatedAt:   group.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   group.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
