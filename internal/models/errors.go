package models

import (
	"errors"
	"fmt"
)

// Common service errors. Controllers translate these into HTTP status
// codes with errors.Is / errors.As.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("record was modified by another request")
)

// ValidationError reports malformed input or a reference to a catalog
// row or user that does not exist or is inactive. No write has happened
// when one of these is returned.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
