package services

import (
	"errors"
	"fmt"

	"storefront/internal/repositories"
)

// Error classes. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = repositories.ErrNotFound
	ErrConflict     = errors.New("conflict")
	ErrSignature    = errors.New("invalid webhook signature")
)

// Conflict kinds.
var (
	ErrDuplicateName      = fmt.Errorf("%w: a category with this name already exists under the same parent", ErrConflict)
	ErrHasChildren        = fmt.Errorf("%w: category still has sub-categories", ErrConflict)
	ErrHasProducts        = fmt.Errorf("%w: category still has products", ErrConflict)
	ErrSelfParent         = fmt.Errorf("%w: a category cannot be its own parent", ErrConflict)
	ErrCircularReference  = fmt.Errorf("%w: parent assignment would create a cycle", ErrConflict)
	ErrInvalidTransition  = fmt.Errorf("%w: order status transition not allowed", ErrConflict)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrMissingUser        = fmt.Errorf("%w: missing userId", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
