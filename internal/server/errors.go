package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-docs/internal/generate"
)

// ErrProfileNotFound indicates the requested profile does not exist
type ErrProfileNotFound struct {
	ProfileID uuid.UUID
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("profile not found: %s", e.ProfileID)
}

// ErrLetterNotFound indicates the requested letter does not exist
type ErrLetterNotFound struct {
	LetterID uuid.UUID
}

func (e *ErrLetterNotFound) Error() string {
	return fmt.Sprintf("letter not found: %s", e.LetterID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var inputErr *generate.InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}

	switch err.(type) {
	case *ErrProfileNotFound, *ErrLetterNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
