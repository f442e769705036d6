// Package ports defines the interfaces the application layer depends on,
// keeping infrastructure implementations swappable.
package ports

import (
	"context"
	"time"
)

// OperationStatus is the phase of an asynchronous generation operation.
type OperationStatus string

const (
	OperationStatusPending OperationStatus = "pending"
	OperationStatusSuccess OperationStatus = "success"
	OperationStatusError   OperationStatus = "error"
)

// IsTerminal returns true once an operation can no longer change phase.
func (s OperationStatus) IsTerminal() bool {
	return s == OperationStatusSuccess || s == OperationStatusError
}

// OperationResult is the queryable record of one generation operation.
// Callers poll it while the canvas mutation settles in the background.
type OperationResult struct {
	OperationID string          `json:"operation_id"`
	CanvasID    string          `json:"canvas_id"`
	Kind        string          `json:"kind"`
	Status      OperationStatus `json:"status"`
	NodeIDs     []string        `json:"node_ids,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      any             `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// OperationStore manages async operation results
type OperationStore interface {
	// Store saves an operation result
	Store(ctx context.Context, result *OperationResult) error

	// Get retrieves an operation result by ID
	Get(ctx context.Context, operationID string) (*OperationResult, error)

	// Update updates an existing operation result
	Update(ctx context.Context, operationID string, result *OperationResult) error

	// Delete removes an operation result
	Delete(ctx context.Context, operationID string) error

	// CleanupExpired removes operations older than the given duration
	CleanupExpired(ctx context.Context, olderThan time.Duration) error
}
