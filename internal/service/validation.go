package service

import (
	"errors"

	apperrors "collab-hub-backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

// invalidRequest translates a validator failure into the validation error
// family, naming the first offending field.
func invalidRequest(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.NewValidationError(fieldErrs[0].Field(), "failed on the '"+fieldErrs[0].Tag()+"' constraint")
	}
	return apperrors.NewValidationError("", err.Error())
}
