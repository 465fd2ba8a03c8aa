package handlers

import (
	"net/http"
	"strconv"

	"collab-hub-backend/internal/database/models"
	"collab-hub-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MembershipHandler handles HTTP requests for group memberships
type MembershipHandler struct {
	membershipService *service.MembershipService
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(membershipService *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// AddMemberRequest carries the target of an add. The actor always comes from
// the authenticated session.
type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// ChangeRoleRequest carries the target and new role for a role change
type ChangeRoleRequest struct {
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	NewRole string    `json:"new_role" binding:"required"`
}

// TransferLeadershipRequest carries the new leader candidate
type TransferLeadershipRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// ListMembers lists a group's members
// @Summary List group members
// @Description List all members of a group with their roles. Any member of the group may call this.
// @Tags memberships
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.MemberListResponse "Members"
// @Failure 403 {object} map[string]interface{} "Not a member of the group"
// @Failure 404 {object} map[string]interface{} "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/members [get]
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	members, err := h.membershipService.ListMembers(actor, groupID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// AddMember adds a user to a group
// @Summary Add a group member
// @Description Add a user to the group with role member. Requires the leader or an admin.
// @Tags memberships
// @Accept json
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param request body AddMemberRequest true "Target user"
// @Success 201 {object} service.MemberResponse "Member added"
// @Failure 403 {object} map[string]interface{} "Insufficient role"
// @Failure 404 {object} map[string]interface{} "Group or user not found"
// @Failure 409 {object} map[string]interface{} "Already a member"
// @Security BearerAuth
// @Router /groups/{id}/members [post]
func (h *MembershipHandler) AddMember(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.membershipService.AddMember(actor, groupID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember removes a user from a group
// @Summary Remove a group member
// @Description Remove a member from the group. Leaders can remove anyone but the creator; members can remove themselves.
// @Tags memberships
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param userId path string true "Target user ID (UUID)"
// @Success 204 "Member removed"
// @Failure 403 {object} map[string]interface{} "Insufficient role or creator protected"
// @Failure 404 {object} map[string]interface{} "Membership not found"
// @Security BearerAuth
// @Router /groups/{id}/members/{userId} [delete]
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(actor, groupID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ChangeRole changes a member's role
// @Summary Change a member's role
// @Description Change a member's role between member and admin. Leader only. The leader role is only assignable through leadership transfer.
// @Tags memberships
// @Accept json
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param request body ChangeRoleRequest true "Target user and new role"
// @Success 200 {object} service.MemberResponse "Updated member"
// @Failure 400 {object} map[string]interface{} "Invalid role"
// @Failure 403 {object} map[string]interface{} "Insufficient role or creator protected"
// @Failure 404 {object} map[string]interface{} "Membership not found"
// @Security BearerAuth
// @Router /groups/{id}/members/role [put]
func (h *MembershipHandler) ChangeRole(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.membershipService.ChangeRole(actor, groupID, req.UserID, models.GroupRole(req.NewRole))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// TransferLeadership transfers group leadership to another member
// @Summary Transfer group leadership
// @Description Atomically make the candidate the leader and demote the current leader to member.
// @Tags memberships
// @Accept json
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param request body TransferLeadershipRequest true "New leader candidate"
// @Success 204 "Leadership transferred"
// @Failure 400 {object} map[string]interface{} "Transfer to self"
// @Failure 403 {object} map[string]interface{} "Actor is not the current leader"
// @Failure 404 {object} map[string]interface{} "Candidate is not a member"
// @Security BearerAuth
// @Router /groups/{id}/leadership [post]
func (h *MembershipHandler) TransferLeadership(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req TransferLeadershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.membershipService.TransferLeadership(actor, groupID, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
