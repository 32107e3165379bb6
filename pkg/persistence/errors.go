// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrOrderNotFound indicates an order was not found by the given identifier.
	ErrOrderNotFound = errors.New("order not found")

	// ErrTicketNotFound indicates a ticket was not found by the given identifier.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrServiceNotFound indicates a service was not found by the given identifier.
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceAlreadyExists indicates a service with the same code already exists.
	ErrServiceAlreadyExists = errors.New("service already exists")
)

// EntityError wraps entity-related errors with additional context.
type EntityError struct {
	Op       string // Operation being performed (e.g., "OrderByID", "UpdateTicket")
	EntityID string // Entity ID if applicable
	Err      error  // Underlying error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s operation failed for %s: %v", e.Op, e.EntityID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for entity errors.
func (e *EntityError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewEntityError creates a new entity error with context.
func NewEntityError(op, entityID string, err error) *EntityError {
	return &EntityError{
		Op:       op,
		EntityID: entityID,
		Err:      err,
	}
}

// IsOrderNotFound checks if an error indicates an order was not found.
func IsOrderNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

// IsTicketNotFound checks if an error indicates a ticket was not found.
func IsTicketNotFound(err error) bool {
	return errors.Is(err, ErrTicketNotFound)
}

// IsServiceNotFound checks if an error indicates a service was not found.
func IsServiceNotFound(err error) bool {
	return errors.Is(err, ErrServiceNotFound)
}

// IsServiceAlreadyExists checks if an error indicates a duplicate service code.
func IsServiceAlreadyExists(err error) bool {
	return errors.Is(err, ErrServiceAlreadyExists)
}
