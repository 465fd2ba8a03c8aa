package service

import (
	"errors"
	"fmt"

	"collab-hub-backend/internal/database/models"
	apperrors "collab-hub-backend/internal/errors"
	"collab-hub-backend/internal/logger"
	"collab-hub-backend/internal/policy"
	"collab-hub-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipService performs all membership mutations. Every operation runs
// policy check, then store mutation, then audit append, in that order. The
// audit append is best-effort: a failure there is logged and never rolls back
// or fails the mutation of record.
type MembershipService struct {
	membershipRepo repository.MembershipRepositoryInterface
	groupRepo      repository.GroupRepositoryInterface
	userRepo       repository.UserRepositoryInterface
	activity       ActivityRecorder
	log            *logger.Logger
}

// NewMembershipService creates a new membership service
func NewMembershipService(membershipRepo repository.MembershipRepositoryInterface, groupRepo repository.GroupRepositoryInterface, userRepo repository.UserRepositoryInterface, activity ActivityRecorder, log *logger.Logger) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		groupRepo:      groupRepo,
		userRepo:       userRepo,
		activity:       activity,
		log:            log,
	}
}

// MemberResponse represents one member of a group
type MemberResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    string    `json:"joined_at"`
}

// MemberListResponse represents a paginated list of group members
type MemberListResponse struct {
	Members  []MemberResponse `json:"members"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// AddMember adds target as a plain member of the group. Safe under
// concurrent duplicate calls: exactly one insert wins, the rest observe the
// AlreadyMember outcome through unique-violation translation.
func (s *MembershipService) AddMember(actorID, groupID, targetUserID uuid.UUID) (*MemberResponse, error) {
	group, actorRole, err := s.groupAndActorRole(groupID, actorID)
	if err != nil {
		return nil, err
	}

	if d := policy.CanPerform(policy.Request{ActorRole: actorRole, Action: policy.ActionAddMember}); !d.Allowed {
		return nil, s.denied(actorRole, d)
	}

	if _, err := s.userRepo.GetByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify target user: %w", err)
	}

	// Fast path: an existing membership short-circuits before the insert.
	existing, err := s.membershipRepo.GetByGroupAndUser(groupID, targetUserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrAlreadyMember
	}

	membership := &models.GroupMembership{
		GroupID: groupID,
		UserID:  targetUserID,
		Role:    models.GroupRoleMember,
	}
	if err := s.membershipRepo.Create(membership); err != nil {
		// Race path: a concurrent add won the insert. Same outcome as the
		// fast path, not an internal error.
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	s.recordActivity(actorID, group.ID, models.ActionMemberAdded, "membership", membership.ID, map[string]interface{}{
		"user_id": targetUserID,
	})

	return toMemberResponse(membership, nil), nil
}

// RemoveMember deletes target's membership. The group creator can never be
// removed; a leader may remove anyone else; any non-leader member may remove
// themself (leave).
func (s *MembershipService) RemoveMember(actorID, groupID, targetUserID uuid.UUID) error {
	group, actorRole, err := s.groupAndActorRole(groupID, actorID)
	if err != nil {
		return err
	}

	target, err := s.membershipRepo.GetByGroupAndUser(groupID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to get target membership: %w", err)
	}

	d := policy.CanPerform(policy.Request{
		ActorRole:       actorRole,
		TargetRole:      target.Role,
		Action:          policy.ActionRemoveMember,
		ActorIsTarget:   actorID == targetUserID,
		TargetIsCreator: targetUserID == group.CreatedBy,
	})
	if !d.Allowed {
		return s.denied(actorRole, d)
	}

	if err := s.membershipRepo.Delete(groupID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	s.recordActivity(actorID, group.ID, models.ActionMemberRemoved, "membership", target.ID, map[string]interface{}{
		"user_id": targetUserID,
		"role":    target.Role,
	})

	return nil
}

// ChangeRole updates target's role between member and admin. The leader role
// is unreachable here; leadership only moves through TransferLeadership.
func (s *MembershipService) ChangeRole(actorID, groupID, targetUserID uuid.UUID, newRole models.GroupRole) (*MemberResponse, error) {
	if !newRole.IsValid() {
		return nil, apperrors.ErrInvalidRole
	}
	if newRole == models.GroupRoleLeader {
		return nil, apperrors.ErrLeaderViaRoleChange
	}

	group, actorRole, err := s.groupAndActorRole(groupID, actorID)
	if err != nil {
		return nil, err
	}

	target, err := s.membershipRepo.GetByGroupAndUser(groupID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get target membership: %w", err)
	}

	d := policy.CanPerform(policy.Request{
		ActorRole:       actorRole,
		TargetRole:      target.Role,
		Action:          policy.ActionChangeRole,
		ActorIsTarget:   actorID == targetUserID,
		TargetIsCreator: targetUserID == group.CreatedBy,
	})
	if !d.Allowed {
		return nil, s.denied(actorRole, d)
	}

	previousRole := target.Role
	if err := s.membershipRepo.UpdateRole(groupID, targetUserID, newRole); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.recordActivity(actorID, group.ID, models.ActionRoleChanged, "membership", target.ID, map[string]interface{}{
		"user_id": targetUserID,
		"from":    previousRole,
		"to":      newRole,
	})

	target.Role = newRole
	return toMemberResponse(target, nil), nil
}

// TransferLeadership atomically makes candidate the leader and demotes the
// current leader to member. The two role writes are one transactional unit
// in the store; no intermediate state with zero or two leaders is observable.
func (s *MembershipService) TransferLeadership(actorID, groupID, candidateUserID uuid.UUID) error {
	group, actorRole, err := s.groupAndActorRole(groupID, actorID)
	if err != nil {
		return err
	}

	if actorID == candidateUserID {
		return apperrors.ErrTransferToSelf
	}

	candidate, err := s.membershipRepo.GetByGroupAndUser(groupID, candidateUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to get candidate membership: %w", err)
	}

	d := policy.CanPerform(policy.Request{
		ActorRole:     actorRole,
		TargetRole:    candidate.Role,
		Action:        policy.ActionTransferLeadership,
		ActorIsTarget: false,
	})
	if !d.Allowed {
		return s.denied(actorRole, d)
	}

	if err := s.membershipRepo.TransferLeadership(groupID, actorID, candidateUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to transfer leadership: %w", err)
	}

	s.recordActivity(actorID, group.ID, models.ActionLeaderChanged, "group", group.ID, map[string]interface{}{
		"old_leader": actorID,
		"new_leader": candidateUserID,
	})

	return nil
}

// ListMembers returns the group's members with their roles. Any member of
// the group may view the list.
func (s *MembershipService) ListMembers(actorID, groupID uuid.UUID, page, pageSize int) (*MemberListResponse, error) {
	_, actorRole, err := s.groupAndActorRole(groupID, actorID)
	if err != nil {
		return nil, err
	}

	if d := policy.CanPerform(policy.Request{ActorRole: actorRole, Action: policy.ActionView}); !d.Allowed {
		return nil, apperrors.ErrNotGroupMember
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	memberships, total, err := s.membershipRepo.GetByGroupID(groupID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]MemberResponse, len(memberships))
	for i := range memberships {
		members[i] = *toMemberResponse(&memberships[i], &memberships[i].User)
	}

	return &MemberListResponse{
		Members:  members,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// groupAndActorRole loads the group and resolves the actor's role in it.
// The role is empty when the actor holds no membership.
func (s *MembershipService) groupAndActorRole(groupID, actorID uuid.UUID) (*models.Group, models.GroupRole, error) {
	group, err := s.groupRepo.GetByID(groupID)
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

// denied maps a policy denial to the error taxonomy. A missing membership is
// always ErrNotGroupMember; anything else carries the policy's reason.
func (s *MembershipService) denied(actorRole models.GroupRole, d policy.Decision) error {
	if actorRole == "" {
		return apperrors.ErrNotGroupMember
	}
	return apperrors.NewAuthorizationError(d.Reason)
}

// recordActivity appends the audit entry for a committed mutation. Failures
// are logged and deliberately not propagated: membership state is the system
// of record and the audit trail is best-effort.
func (s *MembershipService) recordActivity(actorID, groupID uuid.UUID, action models.ActivityAction, entityType string, entityID uuid.UUID, details interface{}) {
	if err := s.activity.Record(actorID, groupID, action, entityType, entityID, details); err != nil {
		s.log.WithFields(map[string]interface{}{
			"group_id": groupID,
			"actor_id": actorID,
			"action":   action,
		}).Warnf("audit write failed: %v", apperrors.NewAuditWriteError(err))
	}
}

func toMemberResponse(membership *models.GroupMembership, user *models.User) *MemberResponse {
	resp := &MemberResponse{
		UserID:   membership.UserID,
		Role:     string(membership.Role),
		JoinedAt: membership.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if user != nil {
		resp.DisplayName = user.DisplayName
		resp.Email = user.Email
	}
	return resp
}
