package shared

import (
	"github.com/google/uuid"
)

// NodeID is a value object that ensures valid node identifiers
type NodeID struct {
	value string
}

// NewNodeID creates a new random NodeID
func NewNodeID() NodeID {
	return NodeID{value: uuid.New().String()}
}

// ParseNodeID creates a NodeID from a string, validating it's a proper UUID
func ParseNodeID(id string) (NodeID, error) {
	if _, err := uuid.Parse(id); err != nil {
		return NodeID{}, ErrInvalidNodeID
	}
	return NodeID{value: id}, nil
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsEmpty checks if the NodeID is empty
func (id NodeID) IsEmpty() bool {
	return id.value == ""
}

// EdgeID is a value object that ensures valid edge identifiers
type EdgeID struct {
	value string
}

// NewEdgeID creates a new random EdgeID
func NewEdgeID() EdgeID {
	return EdgeID{value: uuid.New().String()}
}

// ParseEdgeID creates an EdgeID from a string, validating it's a proper UUID
func ParseEdgeID(id string) (EdgeID, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EdgeID{}, ErrInvalidEdgeID
	}
	return EdgeID{value: id}, nil
}

// String returns the string representation of the EdgeID
func (id EdgeID) String() string {
	return id.value
}

// Equals checks if two EdgeIDs are equal
func (id EdgeID) Equals(other EdgeID) bool {
	return id.value == other.value
}

// IsEmpty checks if the EdgeID is empty
func (id EdgeID) IsEmpty() bool {
	return id.value == ""
}

// CanvasID is a value object identifying one canvas aggregate
type CanvasID struct {
	value string
}

// NewCanvasID creates a new random CanvasID
func NewCanvasID() CanvasID {
	return CanvasID{value: uuid.New().String()}
}

// ParseCanvasID creates a CanvasID from a string, validating it's a proper UUID
func ParseCanvasID(id string) (CanvasID, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CanvasID{}, ErrInvalidCanvasID
	}
	return CanvasID{value: id}, nil
}

// String returns the string representation of the CanvasID
func (id CanvasID) String() string {
	return id.value
}

// Equals checks if two CanvasIDs are equal
func (id CanvasID) Equals(other CanvasID) bool {
	return id.value == other.value
}

// IsEmpty checks if the CanvasID is empty
func (id CanvasID) IsEmpty() bool {
	return id.value == ""
}

// OperationID identifies one tracked mutation from begin to settlement
type OperationID struct {
	value string
}

// NewOperationID creates a new random OperationID
func NewOperationID() OperationID {
	return OperationID{value: uuid.New().String()}
}

// ParseOperationID creates an OperationID from a string, validating it's a proper UUID
func ParseOperationID(id string) (OperationID, error) {
	if _, err := uuid.Parse(id); err != nil {
		return OperationID{}, ErrInvalidOperationID
	}
	return OperationID{value: id}, nil
}

// String returns the string representation of the OperationID
func (id OperationID) String() string {
	return id.value
}

// Equals checks if two OperationIDs are equal
func (id OperationID) Equals(other OperationID) bool {
	return id.value == other.value
}

// IsEmpty checks if the OperationID is empty
func (id OperationID) IsEmpty() bool {
	return id.value == ""
}
