package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	apperrors "collab-hub-backend/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	assert.Equal(t, "group not found", apperrors.ErrGroupNotFound.Error())
	assert.Equal(t, "membership not found", apperrors.ErrMembershipNotFound.Error())

	assert.True(t, apperrors.IsNotFound(apperrors.ErrGroupNotFound))
	assert.True(t, apperrors.IsNotFound(apperrors.ErrUserNotFound))
	assert.False(t, apperrors.IsNotFound(apperrors.ErrAlreadyMember))
	assert.False(t, apperrors.IsNotFound(nil))
}

func TestNotFoundErrorIsComparesEntity(t *testing.T) {
	err := apperrors.NewNotFoundError("group")
	assert.True(t, stderrors.Is(err, apperrors.ErrGroupNotFound))
	assert.False(t, stderrors.Is(err, apperrors.ErrUserNotFound))
}

func TestNotFoundErrorSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading group: %w", apperrors.ErrGroupNotFound)
	assert.True(t, apperrors.IsNotFound(wrapped))
	assert.True(t, stderrors.Is(wrapped, apperrors.ErrGroupNotFound))
}

func TestAlreadyExistsError(t *testing.T) {
	assert.Equal(t, "member already exists in this group", apperrors.ErrAlreadyMember.Error())

	assert.True(t, apperrors.IsAlreadyExists(apperrors.ErrAlreadyMember))
	assert.True(t, apperrors.IsAlreadyExists(apperrors.ErrUserExists))
	assert.False(t, apperrors.IsAlreadyExists(apperrors.ErrGroupNotFound))

	wrapped := fmt.Errorf("adding member: %w", apperrors.ErrAlreadyMember)
	assert.True(t, stderrors.Is(wrapped, apperrors.ErrAlreadyMember))
}

func TestValidationError(t *testing.T) {
	assert.True(t, apperrors.IsValidation(apperrors.ErrInvalidRole))
	assert.True(t, apperrors.IsValidation(apperrors.ErrLeaderViaRoleChange))
	assert.True(t, apperrors.IsValidation(apperrors.ErrTransferToSelf))
	assert.True(t, apperrors.IsValidation(apperrors.ErrInvalidCursor))
	assert.False(t, apperrors.IsValidation(apperrors.ErrNotGroupMember))

	err := apperrors.NewValidationError("name", "must not be empty")
	assert.Equal(t, "validation error: name - must not be empty", err.Error())
}

func TestAuthorizationError(t *testing.T) {
	assert.True(t, apperrors.IsAuthorization(apperrors.ErrNotGroupMember))
	assert.True(t, apperrors.IsAuthorization(apperrors.ErrCreatorProtected))
	assert.True(t, apperrors.IsAuthorization(apperrors.ErrLeaderCannotLeave))
	assert.False(t, apperrors.IsAuthorization(apperrors.ErrInvalidRole))

	err := apperrors.NewAuthorizationError("only the leader can do that")
	assert.Equal(t, "only the leader can do that", err.Error())
	assert.True(t, apperrors.IsAuthorization(err))
}

func TestAuthenticationError(t *testing.T) {
	assert.True(t, apperrors.IsAuthentication(apperrors.ErrActorNotInContext))
	assert.False(t, apperrors.IsAuthentication(apperrors.ErrInvalidRefreshToken))
	assert.False(t, apperrors.IsAuthentication(apperrors.ErrNotGroupMember))
}

func TestAuditWriteError(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := apperrors.NewAuditWriteError(cause)

	assert.True(t, apperrors.IsAuditWrite(err))
	assert.False(t, apperrors.IsAuditWrite(cause))
	assert.Contains(t, err.Error(), "audit write failed")
	assert.Contains(t, err.Error(), "connection reset")

	// The cause stays reachable through Unwrap.
	assert.True(t, stderrors.Is(err, cause))
}

func TestTaxonomyIsDisjoint(t *testing.T) {
	// Each classifier matches exactly its own family.
	checks := []func(error) bool{
		apperrors.IsNotFound,
		apperrors.IsAlreadyExists,
		apperrors.IsValidation,
		apperrors.IsAuthorization,
		apperrors.IsAuthentication,
		apperrors.IsAuditWrite,
	}
	samples := []error{
		apperrors.ErrGroupNotFound,
		apperrors.ErrAlreadyMember,
		apperrors.ErrInvalidRole,
		apperrors.ErrNotGroupMember,
		apperrors.ErrActorNotInContext,
		apperrors.NewAuditWriteError(stderrors.New("boom")),
	}

	for i, err := range samples {
		matches := 0
		for _, check := range checks {
			if check(err) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "sample %d matched %d families", i, matches)
	}
}
