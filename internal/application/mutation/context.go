package mutation

import "time"

// MutationContext carries the identity of one placeholder mutation from
// begin to settlement. Settlement paths must treat an empty context as a
// no-op: a vanished placeholder is a recoverable race, not a failure.
type MutationContext struct {
	OperationID string
	CanvasID    string
	NodeIDs     []string
	StartedAt   time.Time
}

// PrimaryNodeID returns the first placeholder node id, or "" when the
// mutation never created one.
func (c MutationContext) PrimaryNodeID() string {
	if len(c.NodeIDs) == 0 {
		return ""
	}
	return c.NodeIDs[0]
}

// IsEmpty returns true when the mutation holds no placeholder nodes.
func (c MutationContext) IsEmpty() bool {
	return len(c.NodeIDs) == 0
}
