// Package node implements the Node domain entity for the Loreweave canvas.
//
// PURPOSE: Represents one narrative entity (character, scene, world, faction,
// location) or a transient generation placeholder as a vertex on the canvas
// graph, carrying its 2-D position and kind-specific display payload.
//
// DOMAIN ROLE: Node is a rich entity owned by the Canvas aggregate. It owns
// the loading → idle | error settlement lifecycle that the mutation
// controller drives, and guarantees a node is never in an inconsistent
// kind/payload combination.
//
// KEY FEATURES:
//   - Tagged display payloads: one Display variant per node kind
//   - Settlement lifecycle: placeholders settle exactly into idle or error
//   - Position updates: layout passes re-home nodes without touching content
package node

import (
	"time"

	"loreweave-backend/internal/domain/shared"
	"loreweave-backend/pkg/errors"
)

// Kind discriminates the display payload a node carries
type Kind string

const (
	KindCharacter Kind = "character"
	KindScene     Kind = "scene"
	KindWorld     Kind = "world"
	KindFaction   Kind = "faction"
	KindLocation  Kind = "location"
	KindPreview   Kind = "preview"
)

// IsValid reports whether the kind is one of the known node kinds
func (k Kind) IsValid() bool {
	switch k {
	case KindCharacter, KindScene, KindWorld, KindFaction, KindLocation, KindPreview:
		return true
	}
	return false
}

// Status is the settlement state of a node
type Status string

const (
	StatusLoading Status = "loading"
	StatusIdle    Status = "idle"
	StatusError   Status = "error"
)

// FallbackErrorMessage is shown when a settlement error carries no message of its own
const FallbackErrorMessage = "generation failed"

// Node represents one vertex on the canvas graph.
type Node struct {
	id           shared.NodeID
	kind         Kind
	status       Status
	position     shared.Position
	display      Display
	errorMessage string
	createdAt    time.Time
	updatedAt    time.Time
	version      int
}

// NewPlaceholder creates a node in loading status, as written by a mutation
// controller at begin time.
//
// Business Rules Enforced:
//   - Kind must be a known node kind
//   - Display payload must match the node kind
func NewPlaceholder(kind Kind, position shared.Position, display Display) (*Node, error) {
	return newNode(kind, StatusLoading, position, display)
}

// NewMaterialized creates a node already in idle status. World sub-nodes
// (factions, locations) arrive materialized because their content is complete
// when the batch is inserted.
func NewMaterialized(kind Kind, position shared.Position, display Display) (*Node, error) {
	return newNode(kind, StatusIdle, position, display)
}

func newNode(kind Kind, status Status, position shared.Position, display Display) (*Node, error) {
	if !kind.IsValid() {
		return nil, errors.NewValidation("unknown node kind: " + string(kind))
	}
	if display == nil {
		return nil, errors.NewValidation("node display payload is required")
	}
	if display.DisplayKind() != kind {
		return nil, errors.NewValidation("display payload does not match node kind " + string(kind))
	}

	now := time.Now()
	return &Node{
		id:        shared.NewNodeID(),
		kind:      kind,
		status:    status,
		position:  position,
		display:   display,
		createdAt: now,
		updatedAt: now,
		version:   0,
	}, nil
}

// ReconstructNode rebuilds a node from stored fields (no validation, no events)
func ReconstructNode(id shared.NodeID, kind Kind, status Status, position shared.Position,
	display Display, errorMessage string, createdAt, updatedAt time.Time, version int) *Node {
	return &Node{
		id:           id,
		kind:         kind,
		status:       status,
		position:     position,
		display:      display,
		errorMessage: errorMessage,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		version:      version,
	}
}

// Getters (read-only access to internal state)

// ID returns the node identifier
func (n *Node) ID() shared.NodeID {
	return n.id
}

// Kind returns the node kind
func (n *Node) Kind() Kind {
	return n.kind
}

// Status returns the settlement status
func (n *Node) Status() Status {
	return n.status
}

// Position returns the node's canvas position
func (n *Node) Position() shared.Position {
	return n.position
}

// Display returns the kind-specific display payload
func (n *Node) Display() Display {
	return n.display
}

// ErrorMessage returns the settlement error message, empty unless status is error
func (n *Node) ErrorMessage() string {
	return n.errorMessage
}

// CreatedAt returns when the node was created
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns when the node was last updated
func (n *Node) UpdatedAt() time.Time {
	return n.updatedAt
}

// Version returns the node's mutation count
func (n *Node) Version() int {
	return n.version
}

// IsLoading reports whether the node is an unsettled placeholder
func (n *Node) IsLoading() bool {
	return n.status == StatusLoading
}

// Business Methods

// SettleInto replaces the display payload and marks the node idle.
// The caller (an entity adapter) is responsible for merging response fields
// into the existing payload before settling, so unset fields survive.
//
// Business Rules Enforced:
//   - Replacement payload must match the node kind
//   - A successful settlement clears any prior error message
func (n *Node) SettleInto(display Display) error {
	if display == nil {
		return errors.NewValidation("settlement display payload is required")
	}
	if display.DisplayKind() != n.kind {
		return errors.NewValidation("settlement payload does not match node kind " + string(n.kind))
	}

	n.display = display
	n.status = StatusIdle
	n.errorMessage = ""
	n.touch()
	return nil
}

// MarkError marks the node as failed, keeping its display payload and
// position so the node stays visible in place. An empty message falls back
// to a fixed string.
func (n *Node) MarkError(message string) {
	if message == "" {
		message = FallbackErrorMessage
	}
	n.status = StatusError
	n.errorMessage = message
	n.touch()
}

// MoveTo re-homes the node to a new position. Used by layout passes; content
// and status are untouched.
func (n *Node) MoveTo(position shared.Position) {
	if n.position.Equals(position) {
		return
	}
	n.position = position
	n.touch()
}

// Clone returns a deep copy of the node, safe to hand out in snapshots
func (n *Node) Clone() *Node {
	out := *n
	if n.display != nil {
		out.display = n.display.Clone()
	}
	return &out
}

// Validate checks the node's state invariants
func (n *Node) Validate() error {
	if n.id.IsEmpty() {
		return errors.NewValidation("node ID is required")
	}
	if !n.kind.IsValid() {
		return errors.NewValidation("unknown node kind: " + string(n.kind))
	}
	if n.display == nil {
		return errors.NewValidation("node display payload is required")
	}
	if n.display.DisplayKind() != n.kind {
		return errors.NewValidation("display payload does not match node kind " + string(n.kind))
	}
	if n.status == StatusError && n.errorMessage == "" {
		return errors.NewValidation("error status requires an error message")
	}
	return nil
}

func (n *Node) touch() {
	n.updatedAt = time.Now()
	n.version++
}
