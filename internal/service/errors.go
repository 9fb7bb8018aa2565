package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps each one to an
// HTTP status code.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. Maps to 403.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrNotGroupMember indicates the caller has no progress deck in the
	// group. Maps to 403.
	ErrNotGroupMember = errors.New("user is not a member of the group")

	// ErrEmptyDeck indicates a progress deck was requested from a deck
	// without cards. Maps to 422.
	ErrEmptyDeck = errors.New("deck has no cards")

	// ErrGenerationDisabled indicates card generation has no LLM configured.
	// Maps to 503.
	ErrGenerationDisabled = errors.New("card generation is not configured")

	// ErrSelfInvitation indicates a user tried to invite themselves.
	ErrSelfInvitation = errors.New("cannot invite yourself")

	// ErrAlreadyMember indicates the invitee already belongs to the group.
	ErrAlreadyMember = errors.New("user is already a member of the group")

	// ErrNoCardsDue indicates an empty session queue.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoCardsImported indicates an import produced no usable rows.
	ErrNoCardsImported = errors.New("no cards found in import")
)

// ServiceError wraps an unexpected failure with the operation that hit it.
// The wrapped error stays reachable through errors.Is/errors.As.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
