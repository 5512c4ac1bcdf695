package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid login name or secret")
	ErrUnauthenticated    = errors.New("missing caller identity")
	ErrTodoNotFound       = errors.New("todo item not found")
	ErrConflict           = errors.New("concurrent modification")
	ErrAccountNotFound    = errors.New("account not found")
)

// ErrLoginNameTaken is reported by account stores on a unique-key violation.
// It is a validation failure from the caller's point of view.
var ErrLoginNameTaken = fmt.Errorf("%w: login name already exists", ErrValidation)

// NewValidationError builds an error that matches ErrValidation and carries msg.
func NewValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
