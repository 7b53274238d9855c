package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arzan03/UserDirectory/internal/repository"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrMissingToken          = errors.New("refresh token required")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("access denied")
	ErrUserNotFound          = repository.ErrUserNotFound
	ErrInvalidUpload         = errors.New("invalid upload")
	ErrUnsupportedMediaType  = errors.New("only JPG and PNG images are allowed")
)

// FieldError is one entry of a field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DuplicateFieldError is returned when email or phone already belongs to
// another user.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func duplicateFrom(err error) (*DuplicateFieldError, bool) {
	var dup *repository.DuplicateKeyError
	if errors.As(err, &dup) {
		return &DuplicateFieldError{Field: dup.Field}, true
	}
	return nil, false
}
