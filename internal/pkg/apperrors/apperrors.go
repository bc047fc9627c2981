package apperrors

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError carries every violation found in the request,
// not only the first one.
type ValidationError struct {
	Messages []string
}

func NewValidation(messages []string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (ve *ValidationError) Error() string {
	return "validation failed: " + strings.Join(ve.Messages, "; ")
}

type ConflictError struct {
	Reason string
}

func NewConflict(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

func (ce *ConflictError) Error() string {
	return "conflict: " + ce.Reason
}
