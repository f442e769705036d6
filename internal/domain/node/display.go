package node

// Display is the kind-specific payload a node renders on the canvas.
// Exactly one variant exists per node kind, discriminated by DisplayKind,
// so adapters work with checked types instead of loose field maps.
type Display interface {
	// DisplayKind returns the node kind this payload belongs to
	DisplayKind() Kind

	// Clone returns a deep copy of the payload
	Clone() Display
}

// CharacterSheet is the display payload for a character node
type CharacterSheet struct {
	Name         string
	Role         string
	Tagline      string
	Bio          string
	VisualPrompt string
	Traits       []string
}

// DisplayKind returns KindCharacter
func (d CharacterSheet) DisplayKind() Kind { return KindCharacter }

// Clone returns a deep copy of the sheet
func (d CharacterSheet) Clone() Display {
	out := d
	out.Traits = append([]string(nil), d.Traits...)
	return out
}

// SceneCard is the display payload for a scene node
type SceneCard struct {
	Title        string
	SceneType    string
	Content      string
	Summary      string
	VisualPrompt string
}

// DisplayKind returns KindScene
func (d SceneCard) DisplayKind() Kind { return KindScene }

// Clone returns a copy of the card
func (d SceneCard) Clone() Display { return d }

// WorldSummary is the display payload for a world root node
type WorldSummary struct {
	Name            string
	Description     string
	Genre           string
	Era             string
	Tone            string
	Themes          []string
	MagicLevel      string
	TechnologyLevel string
}

// DisplayKind returns KindWorld
func (d WorldSummary) DisplayKind() Kind { return KindWorld }

// Clone returns a deep copy of the summary
func (d WorldSummary) Clone() Display {
	out := d
	out.Themes = append([]string(nil), d.Themes...)
	return out
}

// FactionBadge is the display payload for a faction node
type FactionBadge struct {
	Name        string
	Description string
	FactionType string
	Alignment   string
	Values      []string
	Goals       []string
	Influence   string
	AllyCount   int
	EnemyCount  int
}

// DisplayKind returns KindFaction
func (d FactionBadge) DisplayKind() Kind { return KindFaction }

// Clone returns a deep copy of the badge
func (d FactionBadge) Clone() Display {
	out := d
	out.Values = append([]string(nil), d.Values...)
	out.Goals = append([]string(nil), d.Goals...)
	return out
}

// LocationBadge is the display payload for a location node
type LocationBadge struct {
	Name         string
	Description  string
	LocationType string
}

// DisplayKind returns KindLocation
func (d LocationBadge) DisplayKind() Kind { return KindLocation }

// Clone returns a copy of the badge
func (d LocationBadge) Clone() Display { return d }

// PreviewLabel is the display payload for a transient generation placeholder
// that has no real entity behind it yet, e.g. "Generating World...".
type PreviewLabel struct {
	Label string
}

// DisplayKind returns KindPreview
func (d PreviewLabel) DisplayKind() Kind { return KindPreview }

// Clone returns a copy of the label
func (d PreviewLabel) Clone() Display { return d }
