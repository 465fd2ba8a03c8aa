package handlers

import (
	"net/http"
	"strconv"

	"collab-hub-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// NoteHandler handles HTTP requests for notes
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// CreateNote creates a note in a group
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param request body service.CreateNoteRequest true "Note data"
// @Success 201 {object} service.NoteResponse "Created note"
// @Failure 403 {object} map[string]interface{} "Not a member of the group"
// @Security BearerAuth
// @Router /groups/{id}/notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	groupID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.noteService.Create(actor, groupID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// ListNotes lists a group's notes
// @Summary List group notes
// @Tags notes
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.NoteListResponse "Notes"
// @Failure 403 {object} map[string]interface{} "Not a member of the group"
// @Security BearerAuth
// @Router /groups/{id}/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
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

	notes, err := h.noteService.GetByGroup(actor, groupID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notes)
}

// UpdateNote updates a note
// @Summary Update a note
// @Description Update a note's title and body. Author only.
// @Tags notes
// @Accept json
// @Produce json
// @Param noteId path string true "Note ID (UUID)"
// @Param request body service.UpdateNoteRequest true "Note data"
// @Success 200 {object} service.NoteResponse "Updated note"
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Note not found"
// @Security BearerAuth
// @Router /notes/{noteId} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	noteID, ok := pathUUID(c, "noteId")
	if !ok {
		return
	}

	var req service.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.noteService.Update(actor, noteID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote deletes a note
// @Summary Delete a note
// @Description Delete a note. Author only.
// @Tags notes
// @Produce json
// @Param noteId path string true "Note ID (UUID)"
// @Success 204 "Note deleted"
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Note not found"
// @Security BearerAuth
// @Router /notes/{noteId} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	noteID, ok := pathUUID(c, "noteId")
	if !ok {
		return
	}

	if err := h.noteService.Delete(actor, noteID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
