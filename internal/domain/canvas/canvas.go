// Package canvas implements the Canvas aggregate, the single source of truth
// for all nodes and edges currently on one generative canvas.
//
// PURPOSE: Owns the live graph state that every generation flow mutates.
// All writes go through the aggregate's own primitives; readers only ever
// see snapshot copies. That single-writer discipline is the consistency
// invariant the whole engine rests on.
//
// DOMAIN ROLE: Canvas is the aggregate root over Node and Edge entities.
// It guarantees identifier uniqueness, stable insertion order, and that
// removing nodes never leaves a dangling edge behind.
package canvas

import (
	"sync"
	"time"

	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
	"loreweave-backend/pkg/errors"
)

// Limits bounds the canvas size. Zero values mean unlimited.
type Limits struct {
	MaxNodes int
	MaxEdges int
}

// Canvas is the aggregate root for one canvas session.
type Canvas struct {
	mu sync.RWMutex

	id        shared.CanvasID
	name      string
	nodes     []*node.Node
	nodeByID  map[string]*node.Node
	edges     []*edge.Edge
	edgeByID  map[string]*edge.Edge
	limits    Limits
	createdAt time.Time
	updatedAt time.Time
	version   int

	recorder shared.EventRecorder
}

// NewCanvas creates an empty canvas aggregate
func NewCanvas(name string) *Canvas {
	return NewCanvasWithLimits(name, Limits{})
}

// NewCanvasWithLimits creates an empty canvas with size bounds
func NewCanvasWithLimits(name string, limits Limits) *Canvas {
	now := time.Now()
	if name == "" {
		name = "Untitled Canvas"
	}
	return &Canvas{
		id:        shared.NewCanvasID(),
		name:      name,
		nodeByID:  make(map[string]*node.Node),
		edgeByID:  make(map[string]*edge.Edge),
		limits:    limits,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}
}

// ID returns the canvas identifier
func (c *Canvas) ID() shared.CanvasID {
	return c.id
}

// Name returns the canvas name
func (c *Canvas) Name() string {
	return c.name
}

// Version returns the mutation count of the canvas
func (c *Canvas) Version() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// CreatedAt returns when the canvas was created
func (c *Canvas) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the canvas was last mutated
func (c *Canvas) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// NodeCount returns the number of nodes on the canvas
func (c *Canvas) NodeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// EdgeCount returns the number of edges on the canvas
func (c *Canvas) EdgeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.edges)
}

// AddNode appends a node to the canvas.
//
// Business Rules Enforced:
//   - Node identifiers are unique for the lifetime of the canvas session
//   - The canvas node limit, when set, is respected
func (c *Canvas) AddNode(n *node.Node) error {
	if n == nil {
		return errors.NewValidation("node cannot be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.nodeByID[n.ID().String()]; exists {
		return shared.ErrNodeAlreadyExists
	}
	if c.limits.MaxNodes > 0 && len(c.nodes) >= c.limits.MaxNodes {
		return errors.NewConflict("canvas node limit reached")
	}

	c.insertNodeLocked(n)
	c.touchLocked()
	c.recorder.Record(shared.NewNodeAddedEvent(c.id, n.ID(), string(n.Kind()), string(n.Status())))
	return nil
}

// AddEdge appends an edge to the canvas. Endpoint existence is not checked:
// placeholders and their edges are created together, so endpoints exist by
// construction.
func (c *Canvas) AddEdge(e *edge.Edge) error {
	if e == nil {
		return errors.NewValidation("edge cannot be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.edgeByID[e.ID().String()]; exists {
		return shared.ErrEdgeAlreadyExists
	}
	if c.limits.MaxEdges > 0 && len(c.edges) >= c.limits.MaxEdges {
		return errors.NewConflict("canvas edge limit reached")
	}

	c.insertEdgeLocked(e)
	c.touchLocked()
	c.recorder.Record(shared.NewEdgeAddedEvent(c.id, e.ID(), e.Source(), e.Target(), string(e.Kind())))
	return nil
}

// AddBatch inserts a set of nodes and edges in one atomic write, all nodes
// before any edge. Used when a whole sub-graph arrives at once, e.g. a world
// with its factions and locations. On any validation failure nothing is
// inserted.
func (c *Canvas) AddBatch(nodes []*node.Node, edges []*edge.Edge) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n == nil {
			return errors.NewValidation("node cannot be nil")
		}
		id := n.ID().String()
		if _, exists := c.nodeByID[id]; exists {
			return shared.ErrNodeAlreadyExists
		}
		if _, dup := seen[id]; dup {
			return shared.ErrNodeAlreadyExists
		}
		seen[id] = struct{}{}
	}
	for _, e := range edges {
		if e == nil {
			return errors.NewValidation("edge cannot be nil")
		}
		if _, exists := c.edgeByID[e.ID().String()]; exists {
			return shared.ErrEdgeAlreadyExists
		}
	}
	if c.limits.MaxNodes > 0 && len(c.nodes)+len(nodes) > c.limits.MaxNodes {
		return errors.NewConflict("canvas node limit reached")
	}
	if c.limits.MaxEdges > 0 && len(c.edges)+len(edges) > c.limits.MaxEdges {
		return errors.NewConflict("canvas edge limit reached")
	}

	for _, n := range nodes {
		c.insertNodeLocked(n)
		c.recorder.Record(shared.NewNodeAddedEvent(c.id, n.ID(), string(n.Kind()), string(n.Status())))
	}
	for _, e := range edges {
		c.insertEdgeLocked(e)
		c.recorder.Record(shared.NewEdgeAddedEvent(c.id, e.ID(), e.Source(), e.Target(), string(e.Kind())))
	}
	c.touchLocked()
	return nil
}

// UpdateNode looks up a node by id and applies a transform to it in place.
// A missing id is a recoverable race, not an error: the node may have been
// removed between scheduling and completion of an update, so the call is a
// silent no-op. Returns whether the transform was applied.
func (c *Canvas) UpdateNode(id shared.NodeID, fn func(*node.Node)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, exists := c.nodeByID[id.String()]
	if !exists {
		return false
	}

	before := n.Status()
	fn(n)
	after := n.Status()

	c.touchLocked()
	if before == node.StatusLoading && after != node.StatusLoading {
		c.recorder.Record(shared.NewNodeSettledEvent(c.id, n.ID(), string(n.Kind()), string(after)))
	}
	return true
}

// UpdateEdges applies a transform to every edge matching the predicate.
// Returns the number of edges updated.
func (c *Canvas) UpdateEdges(predicate func(*edge.Edge) bool, fn func(*edge.Edge)) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated := 0
	for _, e := range c.edges {
		if predicate(e) {
			fn(e)
			updated++
		}
	}
	if updated > 0 {
		c.touchLocked()
	}
	return updated
}

// RemoveNodes removes every node matching the predicate, along with every
// edge touching a removed node so the canvas never shows a dangling
// connection. Returns the number of nodes removed.
func (c *Canvas) RemoveNodes(predicate func(*node.Node) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := make(map[string]struct{})
	var removedIDs []shared.NodeID
	kept := c.nodes[:0]
	for _, n := range c.nodes {
		if predicate(n) {
			removed[n.ID().String()] = struct{}{}
			removedIDs = append(removedIDs, n.ID())
			delete(c.nodeByID, n.ID().String())
			continue
		}
		kept = append(kept, n)
	}
	if len(removed) == 0 {
		c.nodes = kept
		return 0
	}
	c.nodes = kept

	edgesRemoved := 0
	keptEdges := c.edges[:0]
	for _, e := range c.edges {
		_, srcGone := removed[e.Source().String()]
		_, tgtGone := removed[e.Target().String()]
		if srcGone || tgtGone {
			delete(c.edgeByID, e.ID().String())
			edgesRemoved++
			continue
		}
		keptEdges = append(keptEdges, e)
	}
	c.edges = keptEdges

	c.touchLocked()
	c.recorder.Record(shared.NewNodesRemovedEvent(c.id, removedIDs, edgesRemoved))
	return len(removed)
}

// ReplaceAll swaps the whole node set in one write. Used by layout passes to
// re-home every position at once; edges are left alone.
func (c *Canvas) ReplaceAll(nodes []*node.Node) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n == nil {
			return errors.NewValidation("node cannot be nil")
		}
		if _, dup := seen[n.ID().String()]; dup {
			return shared.ErrNodeAlreadyExists
		}
		seen[n.ID().String()] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nodes = make([]*node.Node, 0, len(nodes))
	c.nodeByID = make(map[string]*node.Node, len(nodes))
	for _, n := range nodes {
		c.insertNodeLocked(n)
	}
	c.touchLocked()
	c.recorder.Record(shared.NewCanvasReplacedEvent(c.id, len(c.nodes), len(c.edges)))
	return nil
}

// FindNode returns a copy of the node with the given id
func (c *Canvas) FindNode(id shared.NodeID) (*node.Node, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, exists := c.nodeByID[id.String()]
	if !exists {
		return nil, shared.ErrNodeNotFound
	}
	return n.Clone(), nil
}

// HasNode checks if a node exists on the canvas
func (c *Canvas) HasNode(id shared.NodeID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.nodeByID[id.String()]
	return exists
}

// Snapshot is a deep-copied, read-only view of the canvas state.
type Snapshot struct {
	CanvasID shared.CanvasID
	Nodes    []*node.Node
	Edges    []*edge.Edge
	Version  int
}

// Snapshot returns a deep copy of the current state in insertion order.
// Mutating the returned entities never touches the live canvas.
func (c *Canvas) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	nodes := make([]*node.Node, len(c.nodes))
	for i, n := range c.nodes {
		nodes[i] = n.Clone()
	}
	edges := make([]*edge.Edge, len(c.edges))
	for i, e := range c.edges {
		edges[i] = e.Clone()
	}
	return Snapshot{
		CanvasID: c.id,
		Nodes:    nodes,
		Edges:    edges,
		Version:  c.version,
	}
}

// Validate ensures canvas invariants: unique identifiers and no orphaned
// edges. AddEdge skips endpoint checks for batch-insert ordering reasons, so
// this is the explicit integrity check callers can run after a batch.
func (c *Canvas) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.edges {
		if _, exists := c.nodeByID[e.Source().String()]; !exists {
			return errors.NewValidation("edge references non-existent source node")
		}
		if _, exists := c.nodeByID[e.Target().String()]; !exists {
			return errors.NewValidation("edge references non-existent target node")
		}
	}
	if len(c.nodes) != len(c.nodeByID) {
		return errors.NewValidation("node index out of sync")
	}
	if len(c.edges) != len(c.edgeByID) {
		return errors.NewValidation("edge index out of sync")
	}
	return nil
}

// DrainEvents returns the domain events recorded since the last drain
func (c *Canvas) DrainEvents() []shared.DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recorder.DrainEvents()
}

// Private helper methods

func (c *Canvas) insertNodeLocked(n *node.Node) {
	c.nodes = append(c.nodes, n)
	c.nodeByID[n.ID().String()] = n
}

func (c *Canvas) insertEdgeLocked(e *edge.Edge) {
	c.edges = append(c.edges, e)
	c.edgeByID[e.ID().String()] = e
}

func (c *Canvas) touchLocked() {
	c.updatedAt = time.Now()
	c.version++
}
