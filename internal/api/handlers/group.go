package handlers

import (
	"net/http"
	"strconv"

	"collab-hub-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GroupHandler handles HTTP requests for groups
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroup creates a new group
// @Summary Create a group
// @Description Create a group. The caller becomes its creator and sole leader.
// @Tags groups
// @Accept json
// @Produce json
// @Param request body service.CreateGroupRequest true "Group data"
// @Success 201 {object} service.GroupResponse "Created group"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Security BearerAuth
// @Router /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.Create(actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// GetGroup retrieves a group by ID
// @Summary Get group by ID
// @Tags groups
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Success 200 {object} service.GroupResponse "Group"
// @Failure 403 {object} map[string]interface{} "Not a member of the group"
// @Failure 404 {object} map[string]interface{} "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	group, err := h.groupService.GetByID(actor, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// ListGroups lists the caller's groups
// @Summary List my groups
// @Tags groups
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.GroupListResponse "Groups"
// @Security BearerAuth
// @Router /groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	groups, err := h.groupService.GetForUser(actor, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// UpdateGroup updates group metadata
// @Summary Update a group
// @Description Update group name and description. Requires the leader or an admin.
// @Tags groups
// @Accept json
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param request body service.UpdateGroupRequest true "Group data"
// @Success 200 {object} service.GroupResponse "Updated group"
// @Failure 403 {object} map[string]interface{} "Insufficient role"
// @Failure 404 {object} map[string]interface{} "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [put]
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.Update(actor, groupID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// DeleteGroup deletes a group
// @Summary Delete a group
// @Description Delete the group and everything in it. Leader only.
// @Tags groups
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Success 204 "Group deleted"
// @Failure 403 {object} map[string]interface{} "Insufficient role"
// @Failure 404 {object} map[string]interface{} "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [delete]
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.groupService.Delete(actor, groupID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
