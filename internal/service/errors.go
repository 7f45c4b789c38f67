package service

import (
	"errors"
	"sort"
	"strings"
)

var ErrTaskNotFound = errors.New("task not found")

// Error messages reused across validation paths.
const (
	msgDueBeforeStart = "The due date must be later or equal to the start date."
	msgTaskOverlap    = "This task overlaps with an existing task."
	msgEmptyTitle     = "The title cannot be empty."
)

// ValidationError is a field-keyed validation failure. Handlers render the
// Fields map directly so clients can show errors inline.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidationError unwraps err into a *ValidationError, or nil.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
