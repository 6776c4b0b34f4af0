package services

import (
	"errors"
	"fmt"
)

// Domain error kinds. Services return these (wrapped with context) instead of
// HTTP statuses; controllers discriminate with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrAuthorization       = errors.New("not authorized")
	ErrInvalidState        = errors.New("operation not valid for current state")
	ErrConflictOfInterest  = errors.New("conflict of interest")
	ErrDuplicateAssignment = errors.New("reviewer already assigned")
	ErrNotFound            = errors.New("not found")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func authorizationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, fmt.Sprintf(format, args...))
}

func invalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
