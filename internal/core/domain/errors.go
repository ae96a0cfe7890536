package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUnknownIdentity      = errors.New("unknown username")
	ErrInvalidCredentials   = errors.New("current password invalid")
	ErrConfirmationMismatch = errors.New("new password and confirm password do not match")
	ErrNoOpPasswordChange   = errors.New("new password must be different from the current password")
	ErrNoActiveSession      = errors.New("no logged-in user")
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrRoleNotFound         = errors.New("role not found")
	ErrForbidden            = errors.New("access forbidden")
)

// ValidationError reports a rejected value on a single input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationField returns the offending field when err is a ValidationError.
func ValidationField(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field, true
	}
	return "", false
}
