package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repositories and services. Handlers translate
// these into the API's {success:false, message} responses.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrInvalidCode        = errors.New("invalid code")
	ErrCodeExpired        = errors.New("code expired")
	ErrInvalidSection     = errors.New("invalid section")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
