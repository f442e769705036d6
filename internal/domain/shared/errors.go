// Package shared provides the value objects, identifiers, and domain errors
// used across the canvas domain.
package shared

import (
	"loreweave-backend/pkg/errors"
)

// Domain error definitions
var (
	// Identifier errors
	ErrInvalidNodeID      = errors.NewValidation("invalid node ID: must be a valid UUID")
	ErrInvalidEdgeID      = errors.NewValidation("invalid edge ID: must be a valid UUID")
	ErrInvalidCanvasID    = errors.NewValidation("invalid canvas ID: must be a valid UUID")
	ErrInvalidOperationID = errors.NewValidation("invalid operation ID: must be a valid UUID")

	// Position errors
	ErrInvalidPosition = errors.NewValidation("invalid position: coordinates must be finite numbers")

	// Node errors
	ErrNodeNotFound      = errors.NewNotFound("node not found")
	ErrNodeAlreadyExists = errors.NewConflict("node already exists")
	ErrSourceNodeGone    = errors.NewNotFound("source node not found on canvas")

	// Edge errors
	ErrEdgeAlreadyExists = errors.NewConflict("edge already exists")
	ErrEdgeSelfLoop      = errors.NewValidation("edge source and target must differ")

	// Canvas errors
	ErrCanvasNotFound = errors.NewNotFound("canvas not found")

	// Operation errors
	ErrOperationNotFound = errors.NewNotFound("operation not found")
)

// Error type checking helpers

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.IsValidation(err)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return errors.IsNotFound(err)
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return errors.IsConflict(err)
}
