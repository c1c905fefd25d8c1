// Package apperr defines the error kinds the HTTP layer knows how to surface.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError means the caller sent bad or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError means the request breaks a business rule.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
