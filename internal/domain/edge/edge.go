// Package edge implements the Edge domain entity for the Loreweave canvas.
//
// PURPOSE: Represents a directed visual connection between two canvas nodes,
// carrying a display label, an animation flag, and kind-specific metadata
// such as relationship strength values.
//
// DOMAIN ROLE: Edge is owned by the Canvas aggregate. It is always created
// in the same batch as its placeholder endpoint, which is what keeps the
// canvas from ever showing a dangling connection.
//
// KEY FEATURES:
//   - Edge kinds: lineage (provenance), relationship (character bonds),
//     containment (world → faction/location)
//   - Animation flag: lineage edges animate while their target is loading
//   - Relationship metadata: strength / trust / romance values
package edge

import (
	"time"

	"loreweave-backend/internal/domain/shared"
)

// Kind represents the type of connection between nodes
type Kind string

const (
	KindLineage      Kind = "lineage"
	KindRelationship Kind = "relationship"
	KindContainment  Kind = "containment"
)

// RelationshipMeta carries the typed bond values of a relationship edge
type RelationshipMeta struct {
	Type     string
	Strength float64
	Trust    float64
	Romance  float64
}

// Edge represents a directed connection between two canvas nodes.
type Edge struct {
	id        shared.EdgeID
	sourceID  shared.NodeID
	targetID  shared.NodeID
	kind      Kind
	label     string
	animated  bool
	meta      *RelationshipMeta
	createdAt time.Time
}

// NewLineageEdge creates an animated provenance edge from a source node to a
// freshly inserted placeholder. The animation runs until the placeholder
// settles.
func NewLineageEdge(sourceID, targetID shared.NodeID) (*Edge, error) {
	return newEdge(sourceID, targetID, KindLineage, "", true, nil)
}

// NewContainmentEdge creates a structural edge from a world root to one of
// its factions or locations.
func NewContainmentEdge(sourceID, targetID shared.NodeID, label string) (*Edge, error) {
	return newEdge(sourceID, targetID, KindContainment, label, false, nil)
}

// NewRelationshipEdge creates a labeled bond between two character nodes.
func NewRelationshipEdge(sourceID, targetID shared.NodeID, label string, meta RelationshipMeta) (*Edge, error) {
	return newEdge(sourceID, targetID, KindRelationship, label, false, &meta)
}

func newEdge(sourceID, targetID shared.NodeID, kind Kind, label string, animated bool, meta *RelationshipMeta) (*Edge, error) {
	if sourceID.IsEmpty() || targetID.IsEmpty() {
		return nil, shared.ErrInvalidNodeID
	}
	if sourceID.Equals(targetID) {
		return nil, shared.ErrEdgeSelfLoop
	}

	return &Edge{
		id:        shared.NewEdgeID(),
		sourceID:  sourceID,
		targetID:  targetID,
		kind:      kind,
		label:     label,
		animated:  animated,
		meta:      meta,
		createdAt: time.Now(),
	}, nil
}

// ReconstructEdge rebuilds an edge from stored fields (no validation)
func ReconstructEdge(id shared.EdgeID, sourceID, targetID shared.NodeID, kind Kind,
	label string, animated bool, meta *RelationshipMeta, createdAt time.Time) *Edge {
	return &Edge{
		id:        id,
		sourceID:  sourceID,
		targetID:  targetID,
		kind:      kind,
		label:     label,
		animated:  animated,
		meta:      meta,
		createdAt: createdAt,
	}
}

// Getters (read-only access to internal state)

// ID returns the edge identifier
func (e *Edge) ID() shared.EdgeID {
	return e.id
}

// Source returns the source node ID
func (e *Edge) Source() shared.NodeID {
	return e.sourceID
}

// Target returns the target node ID
func (e *Edge) Target() shared.NodeID {
	return e.targetID
}

// Kind returns the edge kind
func (e *Edge) Kind() Kind {
	return e.kind
}

// Label returns the display label
func (e *Edge) Label() string {
	return e.label
}

// IsAnimated reports whether the edge is currently animating
func (e *Edge) IsAnimated() bool {
	return e.animated
}

// Meta returns the relationship metadata, nil for non-relationship edges
func (e *Edge) Meta() *RelationshipMeta {
	return e.meta
}

// CreatedAt returns when the edge was created
func (e *Edge) CreatedAt() time.Time {
	return e.createdAt
}

// Business Methods

// StopAnimation turns the animation flag off, called when the target
// placeholder settles.
func (e *Edge) StopAnimation() {
	e.animated = false
}

// HasNode checks if this edge involves a specific node
func (e *Edge) HasNode(nodeID shared.NodeID) bool {
	return e.sourceID.Equals(nodeID) || e.targetID.Equals(nodeID)
}

// ConnectsNodes checks if this edge connects two specific nodes (in either direction)
func (e *Edge) ConnectsNodes(a, b shared.NodeID) bool {
	return (e.sourceID.Equals(a) && e.targetID.Equals(b)) ||
		(e.sourceID.Equals(b) && e.targetID.Equals(a))
}

// IsReverse checks if this edge is the reverse of another edge
func (e *Edge) IsReverse(other *Edge) bool {
	return e.sourceID.Equals(other.targetID) && e.targetID.Equals(other.sourceID)
}

// Clone returns a copy of the edge, safe to hand out in snapshots
func (e *Edge) Clone() *Edge {
	out := *e
	if e.meta != nil {
		meta := *e.meta
		out.meta = &meta
	}
	return &out
}
