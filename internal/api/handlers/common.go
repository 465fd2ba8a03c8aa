package handlers

import (
	"net/http"

	apperrors "collab-hub-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actorID extracts the authenticated user's id set by the auth middleware.
// Aborts with 401 when missing; handlers must return immediately on false.
func actorID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrActorNotInContext.Error()})
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrActorNotInContext.Error()})
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a uuid path parameter, aborting with 400 on failure
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the error taxonomy to HTTP statuses. Every kind gets a
// distinct, actionable message; nothing surfaces as an opaque failure.
func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsAuthentication(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
