package handlers

import (
	"net/http"
	"strconv"

	"collab-hub-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ActivityHandler handles HTTP requests for the activity feed
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListActivity returns one page of a group's activity feed
// @Summary List group activity
// @Description List the group's activity feed, newest first. Pass the returned cursor to load older entries; pages stay stable while new entries arrive.
// @Tags activity
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param page_size query int false "Page size" default(20)
// @Param cursor query string false "Opaque cursor from a previous page"
// @Success 200 {object} service.ActivityListResponse "Activity page"
// @Failure 400 {object} map[string]interface{} "Malformed cursor"
// @Failure 403 {object} map[string]interface{} "Not a member of the group"
// @Security BearerAuth
// @Router /groups/{id}/activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	cursor := c.Query("cursor")

	page, err := h.activityService.ListForGroup(actor, groupID, pageSize, cursor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
