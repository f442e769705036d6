// Package memory provides in-process implementations of the application
// ports. The engine keeps no server-side state beyond these, so everything
// here is bounded by TTLs rather than persisted.
package memory

import (
	"context"
	"sync"
	"time"

	"loreweave-backend/internal/application/ports"
	"loreweave-backend/pkg/errors"
)

const cleanupInterval = 5 * time.Minute

// OperationStore provides an in-memory implementation of ports.OperationStore
type OperationStore struct {
	mu         sync.RWMutex
	operations map[string]*ports.OperationResult
	ttl        time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewOperationStore creates an in-memory operation store whose records
// expire after the given TTL.
func NewOperationStore(ttl time.Duration) *OperationStore {
	store := &OperationStore{
		operations: make(map[string]*ports.OperationResult),
		ttl:        ttl,
		stop:       make(chan struct{}),
	}

	go store.cleanupRoutine()

	return store
}

// Store saves an operation result
func (s *OperationStore) Store(ctx context.Context, result *ports.OperationResult) error {
	if result == nil || result.OperationID == "" {
		return errors.NewValidation("operation result requires an operation id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.operations[result.OperationID] = result
	return nil
}

// Get retrieves an operation result by ID
func (s *OperationStore) Get(ctx context.Context, operationID string) (*ports.OperationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, exists := s.operations[operationID]
	if !exists {
		return nil, errors.NewNotFound("operation not found: " + operationID)
	}

	// Expired records are invisible even before the sweeper removes them
	if s.isExpired(result) {
		return nil, errors.NewNotFound("operation expired: " + operationID)
	}

	return result, nil
}

// Update updates an existing operation result
func (s *OperationStore) Update(ctx context.Context, operationID string, result *ports.OperationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.operations[operationID]; !exists {
		return errors.NewNotFound("operation not found: " + operationID)
	}

	s.operations[operationID] = result
	return nil
}

// Delete removes an operation result
func (s *OperationStore) Delete(ctx context.Context, operationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.operations, operationID)
	return nil
}

// CleanupExpired removes operations older than the given duration
func (s *OperationStore) CleanupExpired(ctx context.Context, olderThan time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, op := range s.operations {
		if now.Sub(op.StartedAt) > olderThan {
			delete(s.operations, id)
		}
	}

	return nil
}

// Close stops the background cleanup goroutine.
func (s *OperationStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *OperationStore) isExpired(result *ports.OperationResult) bool {
	return time.Since(result.StartedAt) > s.ttl
}

// cleanupRoutine sweeps expired operations until Close is called.
func (s *OperationStore) cleanupRoutine() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.CleanupExpired(context.Background(), s.ttl)
		case <-s.stop:
			return
		}
	}
}
