package handlers

import (
	"net/http"
	"strconv"

	"collab-hub-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GoalHandler handles HTTP requests for goals
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoal creates a goal in a group
// @Summary Create a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param request body service.CreateGoalRequest true "Goal data"
// @Success 201 {object} service.GoalResponse "Created goal"
// @Failure 403 {object} map[string]interface{} "Not a member of the group"
// @Security BearerAuth
// @Router /groups/{id}/goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.goalService.Create(actor, groupID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// ListGoals lists a group's goals
// @Summary List group goals
// @Tags goals
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.GoalListResponse "Goals"
// @Failure 403 {object} map[string]interface{} "Not a member of the group"
// @Security BearerAuth
// @Router /groups/{id}/goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
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

	goals, err := h.goalService.GetByGroup(actor, groupID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

// UpdateGoal updates a goal
// @Summary Update a goal
// @Description Update a goal's title, description and due date. Any group member may edit.
// @Tags goals
// @Accept json
// @Produce json
// @Param goalId path string true "Goal ID (UUID)"
// @Param request body service.UpdateGoalRequest true "Goal data"
// @Success 200 {object} service.GoalResponse "Updated goal"
// @Failure 403 {object} map[string]interface{} "Not a member of the group"
// @Failure 404 {object} map[string]interface{} "Goal not found"
// @Security BearerAuth
// @Router /goals/{goalId} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	goalID, ok := pathUUID(c, "goalId")
	if !ok {
		return
	}

	var req service.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.goalService.Update(actor, goalID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// CompleteGoal marks a goal as completed
// @Summary Complete a goal
// @Description Mark a goal as completed. Completing an already completed goal is a no-op.
// @Tags goals
// @Produce json
// @Param goalId path string true "Goal ID (UUID)"
// @Success 200 {object} service.GoalResponse "Completed goal"
// @Failure 403 {object} map[string]interface{} "Not a member of the group"
// @Failure 404 {object} map[string]interface{} "Goal not found"
// @Security BearerAuth
// @Router /goals/{goalId}/complete [post]
func (h *GoalHandler) CompleteGoal(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	goalID, ok := pathUUID(c, "goalId")
	if !ok {
		return
	}

	goal, err := h.goalService.Complete(actor, goalID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// DeleteGoal deletes a goal
// @Summary Delete a goal
// @Description Delete a goal. Author only.
// @Tags goals
// @Produce json
// @Param goalId path string true "Goal ID (UUID)"
// @Success 204 "Goal deleted"
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Goal not found"
// @Security BearerAuth
// @Router /goals/{goalId} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	goalID, ok := pathUUID(c, "goalId")
	if !ok {
		return
	}

	if err := h.goalService.Delete(actor, goalID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
