// Package policy provides the authorization rules for group membership
// management.
//
// Authorization rules:
//   - Leaders can invite, remove, promote, demote, edit, delete, and transfer
//     leadership
//   - Admins can invite members and edit group metadata
//   - Members can view the group, its members, and its activity
//   - Non-members can do nothing
//
// The package is a pure decision table: it reads the request, never the
// database, and has no side effects. Creator protection and the single-leader
// invariant are expressed here; the transactional guarantees that back them
// live in the repository layer.
package policy

import (
	"collab-hub-backend/internal/database/models"
)

// Action identifies an operation subject to an authorization decision.
type Action string

const (
	ActionAddMember          Action = "add_member"
	ActionRemoveMember       Action = "remove_member"
	ActionChangeRole         Action = "change_role"
	ActionTransferLeadership Action = "transfer_leadership"
	ActionEditGroup          Action = "edit_group"
	ActionDeleteGroup        Action = "delete_group"
	ActionView               Action = "view"
)

// Request carries everything a decision needs. ActorRole is empty when the
// actor holds no membership in the group.
type Request struct {
	ActorRole models.GroupRole
	// TargetRole is the target member's current role, for actions that have
	// a target membership. Empty otherwise.
	TargetRole models.GroupRole
	Action     Action
	// ActorIsTarget is true when the actor operates on their own membership.
	ActorIsTarget bool
	// TargetIsCreator is true when the target is the group's creator.
	TargetIsCreator bool
}

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	// Reason explains a denial in user-facing terms. Empty when allowed.
	Reason string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanPerform evaluates the closed rule table for the request. Any
// (role, action) pair not explicitly permitted is denied.
func CanPerform(req Request) Decision {
	// No action is ever permitted for a non-member.
	if req.ActorRole == "" {
		return deny("user is not a member of this group")
	}

	switch req.Action {
	case ActionView:
		return allow()

	case ActionAddMember:
		if req.ActorRole == models.GroupRoleLeader || req.ActorRole == models.GroupRoleAdmin {
			return allow()
		}
		return deny("only the leader or an admin can add members")

	case ActionRemoveMember:
		if req.TargetIsCreator {
			return deny("the group creator cannot be removed")
		}
		if req.ActorIsTarget {
			// Voluntary leave. The leader must transfer first, otherwise the
			// group would be left without one.
			if req.ActorRole == models.GroupRoleLeader {
				return deny("the leader must transfer leadership before leaving")
			}
			return allow()
		}
		if req.ActorRole == models.GroupRoleLeader {
			return allow()
		}
		return deny("only the leader can remove members")

	case ActionChangeRole:
		if req.ActorRole != models.GroupRoleLeader {
			return deny("only the leader can change roles")
		}
		if req.ActorIsTarget {
			// Self-demotion is only reachable through leadership transfer,
			// which guarantees a replacement in the same operation.
			return deny("the leader cannot change their own role")
		}
		if req.TargetIsCreator {
			return deny("the group creator's role can only change through leadership transfer")
		}
		return allow()

	case ActionTransferLeadership:
		if req.ActorRole != models.GroupRoleLeader {
			return deny("only the current leader can transfer leadership")
		}
		if req.ActorIsTarget {
			return deny("leadership cannot be transferred to the current leader")
		}
		return allow()

	case ActionEditGroup:
		if req.ActorRole == models.GroupRoleLeader || req.ActorRole == models.GroupRoleAdmin {
			return allow()
		}
		return deny("only the leader or an admin can edit the group")

	case ActionDeleteGroup:
		if req.ActorRole == models.GroupRoleLeader {
			return allow()
		}
		return deny("only the leader can delete the group")
	}

	return deny("unknown action")
}
