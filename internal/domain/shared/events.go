package shared

import (
	"time"
)

// DomainEvent represents an important business occurrence in the domain
type DomainEvent interface {
	// EventID returns a unique identifier for this event instance
	EventID() string

	// EventType returns the type of event (e.g., "NodeAdded", "NodeSettled")
	EventType() string

	// AggregateID returns the ID of the canvas that generated this event
	AggregateID() string

	// Timestamp returns when the event occurred
	Timestamp() time.Time

	// EventData returns the event-specific data
	EventData() map[string]interface{}
}

// BaseEvent provides common functionality for all domain events
type BaseEvent struct {
	eventID     string
	eventType   string
	aggregateID string
	timestamp   time.Time
}

// EventID returns the unique event identifier
func (e BaseEvent) EventID() string {
	return e.eventID
}

// EventType returns the type of event
func (e BaseEvent) EventType() string {
	return e.eventType
}

// AggregateID returns the canvas identifier
func (e BaseEvent) AggregateID() string {
	return e.aggregateID
}

// Timestamp returns the event timestamp
func (e BaseEvent) Timestamp() time.Time {
	return e.timestamp
}

// NewBaseEvent creates a new base event with common fields
func NewBaseEvent(eventType string, canvasID CanvasID) BaseEvent {
	return BaseEvent{
		eventID:     NewNodeID().String(), // Reuse NodeID generator for simplicity
		eventType:   eventType,
		aggregateID: canvasID.String(),
		timestamp:   time.Now(),
	}
}

// Node events

// NodeAddedEvent is fired when a node is placed on the canvas
type NodeAddedEvent struct {
	BaseEvent
	NodeID string `json:"node_id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
}

// NewNodeAddedEvent creates a new NodeAddedEvent
func NewNodeAddedEvent(canvasID CanvasID, nodeID NodeID, kind, status string) *NodeAddedEvent {
	return &NodeAddedEvent{
		BaseEvent: NewBaseEvent("NodeAdded", canvasID),
		NodeID:    nodeID.String(),
		Kind:      kind,
		Status:    status,
	}
}

// EventData returns the event-specific data
func (e *NodeAddedEvent) EventData() map[string]interface{} {
	return map[string]interface{}{
		"node_id": e.NodeID,
		"kind":    e.Kind,
		"status":  e.Status,
	}
}

// NodeSettledEvent is fired when a loading node resolves to idle or error
type NodeSettledEvent struct {
	BaseEvent
	NodeID string `json:"node_id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
}

// NewNodeSettledEvent creates a new NodeSettledEvent
func NewNodeSettledEvent(canvasID CanvasID, nodeID NodeID, kind, status string) *NodeSettledEvent {
	return &NodeSettledEvent{
		BaseEvent: NewBaseEvent("NodeSettled", canvasID),
		NodeID:    nodeID.String(),
		Kind:      kind,
		Status:    status,
	}
}

// EventData returns the event-specific data
func (e *NodeSettledEvent) EventData() map[string]interface{} {
	return map[string]interface{}{
		"node_id": e.NodeID,
		"kind":    e.Kind,
		"status":  e.Status,
	}
}

// NodesRemovedEvent is fired when nodes (and their edges) leave the canvas
type NodesRemovedEvent struct {
	BaseEvent
	NodeIDs      []string `json:"node_ids"`
	EdgesRemoved int      `json:"edges_removed"`
}

// NewNodesRemovedEvent creates a new NodesRemovedEvent
func NewNodesRemovedEvent(canvasID CanvasID, nodeIDs []NodeID, edgesRemoved int) *NodesRemovedEvent {
	ids := make([]string, len(nodeIDs))
	for i, id := range nodeIDs {
		ids[i] = id.String()
	}
	return &NodesRemovedEvent{
		BaseEvent:    NewBaseEvent("NodesRemoved", canvasID),
		NodeIDs:      ids,
		EdgesRemoved: edgesRemoved,
	}
}

// EventData returns the event-specific data
func (e *NodesRemovedEvent) EventData() map[string]interface{} {
	return map[string]interface{}{
		"node_ids":      e.NodeIDs,
		"edges_removed": e.EdgesRemoved,
	}
}

// Edge events

// EdgeAddedEvent is fired when an edge connects two canvas nodes
type EdgeAddedEvent struct {
	BaseEvent
	EdgeID   string `json:"edge_id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Kind     string `json:"kind"`
}

// NewEdgeAddedEvent creates a new EdgeAddedEvent
func NewEdgeAddedEvent(canvasID CanvasID, edgeID EdgeID, sourceID, targetID NodeID, kind string) *EdgeAddedEvent {
	return &EdgeAddedEvent{
		BaseEvent: NewBaseEvent("EdgeAdded", canvasID),
		EdgeID:    edgeID.String(),
		SourceID:  sourceID.String(),
		TargetID:  targetID.String(),
		Kind:      kind,
	}
}

// EventData returns the event-specific data
func (e *EdgeAddedEvent) EventData() map[string]interface{} {
	return map[string]interface{}{
		"edge_id":   e.EdgeID,
		"source_id": e.SourceID,
		"target_id": e.TargetID,
		"kind":      e.Kind,
	}
}

// Canvas events

// CanvasReplacedEvent is fired when the whole canvas state is swapped out
type CanvasReplacedEvent struct {
	BaseEvent
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// NewCanvasReplacedEvent creates a new CanvasReplacedEvent
func NewCanvasReplacedEvent(canvasID CanvasID, nodeCount, edgeCount int) *CanvasReplacedEvent {
	return &CanvasReplacedEvent{
		BaseEvent: NewBaseEvent("CanvasReplaced", canvasID),
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}
}

// EventData returns the event-specific data
func (e *CanvasReplacedEvent) EventData() map[string]interface{} {
	return map[string]interface{}{
		"node_count": e.NodeCount,
		"edge_count": e.EdgeCount,
	}
}
