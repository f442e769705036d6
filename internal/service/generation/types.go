package generation

// CharacterRequest asks for a new character sheet.
type CharacterRequest struct {
	Concept   string `json:"concept" validate:"required"`
	Archetype string `json:"archetype" validate:"required"`
	Tone      string `json:"tone,omitempty"`
}

// CharacterResult is the generated character sheet payload.
type CharacterResult struct {
	Name         string   `json:"name" validate:"required"`
	Tagline      string   `json:"tagline" validate:"required"`
	Bio          string   `json:"bio" validate:"required"`
	VisualPrompt string   `json:"visual_prompt" validate:"required"`
	Traits       []string `json:"traits" validate:"min=1"`
}

// CharacterContext carries an existing character into a scene request.
type CharacterContext struct {
	Name         string   `json:"name" validate:"required"`
	Tagline      string   `json:"tagline"`
	Bio          string   `json:"bio"`
	VisualPrompt string   `json:"visual_prompt"`
	Traits       []string `json:"traits"`
}

// SceneRequest asks for a scene featuring the given character.
type SceneRequest struct {
	CharacterContext CharacterContext `json:"character_context" validate:"required"`
	SceneType        string           `json:"scene_type" validate:"required"`
	Tone             string           `json:"tone,omitempty"`
}

// SceneResult is the generated scene payload.
type SceneResult struct {
	Title        string `json:"title" validate:"required"`
	Content      string `json:"content" validate:"required"`
	Summary      string `json:"summary" validate:"required"`
	VisualPrompt string `json:"visual_prompt" validate:"required"`
}

// WorldRequest asks for a full world overview with factions and locations.
type WorldRequest struct {
	Genre        string   `json:"genre" validate:"required"`
	Era          string   `json:"era" validate:"required"`
	Tone         string   `json:"tone" validate:"required"`
	Themes       []string `json:"themes" validate:"min=1"`
	NumFactions  int      `json:"num_factions" validate:"gte=1,lte=8"`
	NumLocations int      `json:"num_locations" validate:"gte=1,lte=12"`
}

// WorldSetting is the root world entry of a world generation payload.
type WorldSetting struct {
	ID              string   `json:"id"`
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	Genre           string   `json:"genre"`
	Era             string   `json:"era"`
	Tone            string   `json:"tone"`
	Themes          []string `json:"themes"`
	MagicLevel      string   `json:"magic_level"`
	TechnologyLevel string   `json:"technology_level"`
}

// Faction is one generated faction entry.
type Faction struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	FactionType string   `json:"faction_type"`
	Alignment   string   `json:"alignment"`
	Values      []string `json:"values"`
	Goals       []string `json:"goals"`
	Influence   string   `json:"influence"`
	AllyCount   int      `json:"ally_count"`
	EnemyCount  int      `json:"enemy_count"`
}

// Location is one generated location entry.
type Location struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	LocationType string `json:"location_type"`
}

// WorldResult is the generated world payload.
type WorldResult struct {
	WorldSetting WorldSetting `json:"world_setting" validate:"required"`
	Factions     []Faction    `json:"factions" validate:"min=1,dive"`
	Locations    []Location   `json:"locations" validate:"min=1,dive"`
}
