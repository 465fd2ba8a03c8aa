package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"collab-hub-backend/internal/database/models"
	apperrors "collab-hub-backend/internal/errors"
	"collab-hub-backend/internal/policy"
	"collab-hub-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRecorder is the audit append integration point. Membership,
// group, and content services all write their entries through it.
type ActivityRecorder interface {
	Record(actorID, groupID uuid.UUID, action models.ActivityAction, entityType string, entityID uuid.UUID, details interface{}) error
}

// ActivityService handles the append-only activity audit log
type ActivityService struct {
	repo           repository.ActivityRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
}

// NewActivityService creates a new activity service
func NewActivityService(repo repository.ActivityRepositoryInterface, membershipRepo repository.MembershipRepositoryInterface) *ActivityService {
	return &ActivityService{
		repo:           repo,
		membershipRepo: membershipRepo,
	}
}

// ActivityEntryResponse represents one activity feed entry
type ActivityEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	GroupID     uuid.UUID       `json:"group_id"`
	ActorUserID uuid.UUID       `json:"actor_user_id"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entity_type"`
	EntityID    uuid.UUID       `json:"entity_id"`
	Details     json.RawMessage `json:"details,omitempty" swaggertype:"object"`
	CreatedAt   string          `json:"created_at"`
}

// ActivityListResponse represents one page of a group's activity feed
type ActivityListResponse struct {
	Entries    []ActivityEntryResponse `json:"entries"`
	NextCursor string                  `json:"next_cursor,omitempty"`
	PageSize   int                     `json:"page_size"`
}

// Record appends one audit entry. It validates schema shape only: the action
// must be in the closed taxonomy and the ids must be present. Authorization
// belongs to the mutation that produced the entry, not to the append.
func (s *ActivityService) Record(actorID, groupID uuid.UUID, action models.ActivityAction, entityType string, entityID uuid.UUID, details interface{}) error {
	if !action.IsValid() {
		return apperrors.ErrInvalidAction
	}
	if actorID == uuid.Nil || groupID == uuid.Nil || entityID == uuid.Nil {
		return apperrors.NewValidationError("entry", "actor, group, and entity ids are required")
	}
	if entityType == "" {
		return apperrors.NewValidationError("entity_type", "entity type is required")
	}

	var detailsJSON json.RawMessage
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
		detailsJSON = raw
	}

	entry := &models.ActivityEntry{
		GroupID:     groupID,
		ActorUserID: actorID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Details:     detailsJSON,
	}
	if err := s.repo.Create(entry); err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}
	return nil
}

// ListForGroup returns one page of a group's activity, newest first. Any
// member of the group may read the feed. The cursor is an opaque token
// encoding the last entry's (created_at, id) position.
func (s *ActivityService) ListForGroup(actorID, groupID uuid.UUID, pageSize int, cursor string) (*ActivityListResponse, error) {
	actorRole, err := s.actorRole(groupID, actorID)
	if err != nil {
		return nil, err
	}
	if d := policy.CanPerform(policy.Request{ActorRole: actorRole, Action: policy.ActionView}); !d.Allowed {
		return nil, apperrors.ErrNotGroupMember
	}

	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	before, err := decodeActivityCursor(cursor)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListByGroup(groupID, pageSize, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	responses := make([]ActivityEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ActivityEntryResponse{
			ID:          entry.ID,
			GroupID:     entry.GroupID,
			ActorUserID: entry.ActorUserID,
			Action:      string(entry.Action),
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			Details:     entry.Details,
			CreatedAt:   entry.CreatedAt.Format(time.RFC3339Nano),
		}
	}

	resp := &ActivityListResponse{
		Entries:  responses,
		PageSize: pageSize,
	}
	if len(entries) == pageSize {
		last := entries[len(entries)-1]
		resp.NextCursor = encodeActivityCursor(last.CreatedAt, last.ID)
	}
	return resp, nil
}

func (s *ActivityService) actorRole(groupID, actorID uuid.UUID) (models.GroupRole, error) {
	membership, err := s.membershipRepo.GetByGroupAndUser(groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve actor membership: %w", err)
	}
	return membership.Role, nil
}

func encodeActivityCursor(createdAt time.Time, id uuid.UUID) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + id.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeActivityCursor(cursor string) (*repository.ActivityCursor, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, apperrors.ErrInvalidCursor
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return nil, apperrors.ErrInvalidCursor
	}
	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, apperrors.ErrInvalidCursor
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, apperrors.ErrInvalidCursor
	}
	return &repository.ActivityCursor{CreatedAt: createdAt, ID: id}, nil
}
