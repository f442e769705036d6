package shared

import (
	"testing"
)

func TestNodeID_ParseNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{
			name:    "valid uuid",
			id:      "550e8400-e29b-41d4-a716-446655440000",
			wantErr: false,
		},
		{
			name:    "empty string",
			id:      "",
			wantErr: true,
		},
		{
			name:    "not a uuid",
			id:      "character-1",
			wantErr: true,
		},
		{
			name:    "truncated uuid",
			id:      "550e8400-e29b-41d4",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseNodeID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && id.String() != tt.id {
				t.Errorf("NodeID.String() = %v, want %v", id.String(), tt.id)
			}
		})
	}
}

func TestNodeID_NewNodeID(t *testing.T) {
	a := NewNodeID()
	b := NewNodeID()

	if a.IsEmpty() {
		t.Error("NewNodeID() returned empty id")
	}
	if a.Equals(b) {
		t.Error("NewNodeID() returned identical ids for distinct calls")
	}
	if _, err := ParseNodeID(a.String()); err != nil {
		t.Errorf("NewNodeID() produced unparseable id %q: %v", a.String(), err)
	}
}

func TestNodeID_Equals(t *testing.T) {
	id, err := ParseNodeID("550e8400-e29b-41d4-a716-446655440000")
	if err != nil {
		t.Fatalf("ParseNodeID() error = %v", err)
	}
	same, _ := ParseNodeID("550e8400-e29b-41d4-a716-446655440000")

	if !id.Equals(same) {
		t.Error("Equals() = false for identical values")
	}
	if id.Equals(NewNodeID()) {
		t.Error("Equals() = true for different values")
	}
}

func TestEdgeID_ParseEdgeID(t *testing.T) {
	if _, err := ParseEdgeID("not-a-uuid"); err == nil {
		t.Error("ParseEdgeID() accepted invalid input")
	}
	id := NewEdgeID()
	parsed, err := ParseEdgeID(id.String())
	if err != nil {
		t.Fatalf("ParseEdgeID() error = %v", err)
	}
	if !parsed.Equals(id) {
		t.Errorf("ParseEdgeID() round trip = %v, want %v", parsed, id)
	}
}

func TestCanvasID_ParseCanvasID(t *testing.T) {
	if _, err := ParseCanvasID(""); err == nil {
		t.Error("ParseCanvasID() accepted empty input")
	}
	id := NewCanvasID()
	parsed, err := ParseCanvasID(id.String())
	if err != nil {
		t.Fatalf("ParseCanvasID() error = %v", err)
	}
	if !parsed.Equals(id) {
		t.Errorf("ParseCanvasID() round trip = %v, want %v", parsed, id)
	}
}

func TestOperationID_ParseOperationID(t *testing.T) {
	if _, err := ParseOperationID("op-123"); err == nil {
		t.Error("ParseOperationID() accepted invalid input")
	}
	if NewOperationID().IsEmpty() {
		t.Error("NewOperationID() returned empty id")
	}
}
