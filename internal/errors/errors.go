package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "in this group"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// AuditWriteError wraps a failure to append an activity entry after the
// corresponding mutation has already committed. It is logged by the caller
// and never propagated as a request failure.
type AuditWriteError struct {
	Err error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("audit write failed: %v", e.Err)
}

func (e *AuditWriteError) Unwrap() error {
	return e.Err
}

// Entity Not Found Errors
var (
	ErrGroupNotFound      = &NotFoundError{Entity: "group"}
	ErrUserNotFound       = &NotFoundError{Entity: "user"}
	ErrMembershipNotFound = &NotFoundError{Entity: "membership"}
	ErrNoteNotFound       = &NotFoundError{Entity: "note"}
	ErrGoalNotFound       = &NotFoundError{Entity: "goal"}
)

// Already Exists Errors
var (
	ErrAlreadyMember = &AlreadyExistsError{Entity: "member", Context: "in this group"}
	ErrUserExists    = &AlreadyExistsError{Entity: "user", Context: "with this email"}
)

// Authorization Errors
var (
	ErrNotGroupMember    = &AuthorizationError{Message: "user is not a member of this group"}
	ErrInsufficientRole  = &AuthorizationError{Message: "role does not permit this action"}
	ErrCreatorProtected  = &AuthorizationError{Message: "the group creator cannot be removed or demoted"}
	ErrLeaderCannotLeave = &AuthorizationError{Message: "the leader must transfer leadership before leaving"}
	ErrSelfRoleChange    = &AuthorizationError{Message: "a member cannot change their own role"}
	ErrNotCurrentLeader  = &AuthorizationError{Message: "only the current leader can transfer leadership"}
)

// Role Validation Errors
var (
	ErrInvalidRole         = &ValidationError{Field: "role", Message: "role must be one of leader, admin, member"}
	ErrLeaderViaRoleChange = &ValidationError{Field: "role", Message: "the leader role is only assignable through leadership transfer"}
	ErrTransferToSelf      = &ValidationError{Field: "user_id", Message: "leadership cannot be transferred to the current leader"}
	ErrInvalidAction       = &ValidationError{Field: "action", Message: "action is not in the activity taxonomy"}
	ErrInvalidCursor       = &ValidationError{Field: "cursor", Message: "malformed pagination cursor"}
)

// Authentication Errors
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token has expired")
	ErrActorNotInContext   = &AuthenticationError{Message: "authenticated user not found in context"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsAuditWrite checks if an error is an AuditWriteError
func IsAuditWrite(err error) bool {
	var auditErr *AuditWriteError
	return errors.As(err, &auditErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewAuditWriteError wraps an audit append failure
func NewAuditWriteError(err error) error {
	return &AuditWriteError{Err: err}
}
