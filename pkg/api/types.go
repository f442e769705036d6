package api

import "time"

// CreateCanvasRequest represents the request to open a new canvas
type CreateCanvasRequest struct {
	Name string `json:"name"`
}

// MoveNodeRequest represents the request to reposition a node
type MoveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RemoveNodesRequest represents the request to delete multiple nodes
type RemoveNodesRequest struct {
	NodeIDs []string `json:"node_ids"`
}

// RemoveNodesResponse represents the response for bulk node removal
type RemoveNodesResponse struct {
	RemovedCount int `json:"removed_count"`
}

// LinkResponse carries the id of a newly created relationship edge
type LinkResponse struct {
	EdgeID string `json:"edge_id"`
}

// ArrangeResponse reports how many nodes the layout pass moved
type ArrangeResponse struct {
	MovedCount int `json:"moved_count"`
}

// CanvasView is the wire shape of a canvas summary
type CanvasView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PositionView is a node position on the canvas plane
type PositionView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeView is the wire shape of one canvas node. Display holds the
// kind-specific payload; Kind discriminates which view it is.
type NodeView struct {
	ID       string       `json:"id"`
	Kind     string       `json:"kind"`
	Status   string       `json:"status"`
	Position PositionView `json:"position"`
	Display  interface{}  `json:"display,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// EdgeView is the wire shape of one canvas edge
type EdgeView struct {
	ID       string                `json:"id"`
	Source   string                `json:"source"`
	Target   string                `json:"target"`
	Kind     string                `json:"kind"`
	Label    string                `json:"label,omitempty"`
	Animated bool                  `json:"animated"`
	Meta     *RelationshipMetaView `json:"meta,omitempty"`
}

// RelationshipMetaView carries the bond values of a relationship edge
type RelationshipMetaView struct {
	Type     string  `json:"type,omitempty"`
	Strength float64 `json:"strength"`
	Trust    float64 `json:"trust"`
	Romance  float64 `json:"romance"`
}

// SnapshotResponse is the full graph state returned to the renderer
type SnapshotResponse struct {
	Canvas CanvasView `json:"canvas"`
	Nodes  []NodeView `json:"nodes"`
	Edges  []EdgeView `json:"edges"`
}

// CharacterSheetView is the display payload of a character node
type CharacterSheetView struct {
	Name         string   `json:"name"`
	Role         string   `json:"role,omitempty"`
	Tagline      string   `json:"tagline,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	VisualPrompt string   `json:"visual_prompt,omitempty"`
	Traits       []string `json:"traits,omitempty"`
}

// SceneCardView is the display payload of a scene node
type SceneCardView struct {
	Title        string `json:"title,omitempty"`
	SceneType    string `json:"scene_type,omitempty"`
	Content      string `json:"content,omitempty"`
	Summary      string `json:"summary,omitempty"`
	VisualPrompt string `json:"visual_prompt,omitempty"`
}

// WorldSummaryView is the display payload of a world root node
type WorldSummaryView struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Genre           string   `json:"genre,omitempty"`
	Era             string   `json:"era,omitempty"`
	Tone            string   `json:"tone,omitempty"`
	Themes          []string `json:"themes,omitempty"`
	MagicLevel      string   `json:"magic_level,omitempty"`
	TechnologyLevel string   `json:"technology_level,omitempty"`
}

// FactionBadgeView is the display payload of a faction node
type FactionBadgeView struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	FactionType string   `json:"faction_type,omitempty"`
	Alignment   string   `json:"alignment,omitempty"`
	Values      []string `json:"values,omitempty"`
	Goals       []string `json:"goals,omitempty"`
	Influence   string   `json:"influence,omitempty"`
	AllyCount   int      `json:"ally_count"`
	EnemyCount  int      `json:"enemy_count"`
}

// LocationBadgeView is the display payload of a location node
type LocationBadgeView struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	LocationType string `json:"location_type,omitempty"`
}

// PreviewLabelView is the display payload of a transient preview node
type PreviewLabelView struct {
	Label string `json:"label"`
}

// HealthResponse reports process and generation-backend status
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Generation  string `json:"generation"`
	UptimeSecs  int64  `json:"uptime_secs"`
}
