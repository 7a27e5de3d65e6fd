package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrForbidden           = errors.New("forbidden")
	ErrUserNotFound        = errors.New("user not found")
	ErrPostNotFound        = errors.New("post not found")
	ErrEmailExists         = errors.New("email already exists")
	ErrValidation          = errors.New("validation failed")
	ErrHashingFailure      = errors.New("password hashing failed")
	ErrVerificationFailure = errors.New("password verification failed")
)

// FieldViolation describes one invalid field of a request payload.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a payload, not just the first.
type ValidationError struct {
	Violations []FieldViolation
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Is lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
