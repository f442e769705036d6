package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// MockProvider provides deterministic canned payloads for testing and
// development. It reads the embedded request back out of the prompt so the
// responses honor the requested archetypes, counts, and tones.
type MockProvider struct {
	available bool
	err       error
}

// NewMockProvider creates a new mock generation provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		available: true,
	}
}

// IsAvailable returns whether the mock provider is available
func (m *MockProvider) IsAvailable() bool {
	return m.available
}

// SetAvailable controls whether the mock provider is available (for testing)
func (m *MockProvider) SetAvailable(available bool) {
	m.available = available
}

// SetError makes every completion fail with the given error (for testing)
func (m *MockProvider) SetError(err error) {
	m.err = err
}

// ClearErrors removes a configured completion error
func (m *MockProvider) ClearErrors() {
	m.err = nil
}

// Complete produces a canned payload matched to the prompt type.
func (m *MockProvider) Complete(ctx context.Context, prompt string, options CompletionOptions) (string, error) {
	if !m.available {
		return "", fmt.Errorf("mock provider is not available")
	}
	if m.err != nil {
		return "", m.err
	}

	switch {
	case strings.Contains(prompt, "Create a character sheet"):
		return m.mockCharacter(prompt)
	case strings.Contains(prompt, "Write a scene featuring"):
		return m.mockScene(prompt)
	case strings.Contains(prompt, "Generate a world overview"):
		return m.mockWorld(prompt)
	}

	return "", fmt.Errorf("unsupported prompt type")
}

// extractRequest pulls the embedded request JSON back out of a prompt.
func extractRequest[T any](prompt string) (T, error) {
	var req T

	lines := strings.Split(prompt, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "Request:") && i+1 < len(lines) {
			if err := json.Unmarshal([]byte(strings.TrimSpace(lines[i+1])), &req); err != nil {
				return req, fmt.Errorf("failed to parse embedded request: %w", err)
			}
			return req, nil
		}
	}

	return req, fmt.Errorf("prompt carries no embedded request")
}

// mockCharacterNames keys canonical names by archetype so repeated runs of
// the same request produce the same character.
var mockCharacterNames = map[string]string{
	"mentor":    "Eldrin the Wise",
	"trickster": "Vex Quickfinger",
	"guardian":  "Sera Ironveil",
	"villain":   "Lord Malachar",
	"healer":    "Maren of the Vale",
}

var mockTraits = map[string][]string{
	"mentor":    {"patient", "cryptic", "fiercely loyal"},
	"trickster": {"quick-witted", "unreliable", "charming"},
	"guardian":  {"steadfast", "blunt", "self-sacrificing"},
	"villain":   {"calculating", "charismatic", "remorseless"},
}

func (m *MockProvider) mockCharacter(prompt string) (string, error) {
	req, err := extractRequest[CharacterRequest](prompt)
	if err != nil {
		return "", err
	}

	archetype := strings.ToLower(strings.TrimSpace(req.Archetype))
	name, ok := mockCharacterNames[archetype]
	if !ok {
		name = fmt.Sprintf("Kael the %s", capitalize(req.Archetype))
	}
	traits, ok := mockTraits[archetype]
	if !ok {
		traits = []string{"resolute", "observant", "guarded"}
	}

	tone := req.Tone
	if tone == "" {
		tone = "measured"
	}

	result := CharacterResult{
		Name:         name,
		Tagline:      fmt.Sprintf("A %s forged by %s", archetype, req.Concept),
		Bio:          fmt.Sprintf("%s has lived as %s for longer than anyone remembers. Their %s manner hides a past bound to %s.", name, req.Concept, tone, req.Concept),
		VisualPrompt: fmt.Sprintf("Portrait of %s, %s, %s lighting", name, req.Concept, tone),
		Traits:       traits,
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (m *MockProvider) mockScene(prompt string) (string, error) {
	req, err := extractRequest[SceneRequest](prompt)
	if err != nil {
		return "", err
	}

	name := req.CharacterContext.Name
	if name == "" {
		name = "the stranger"
	}
	tone := req.Tone
	if tone == "" {
		tone = "quiet"
	}

	result := SceneResult{
		Title:        fmt.Sprintf("%s with %s", capitalize(req.SceneType), name),
		Content:      fmt.Sprintf("%s stood at the center of it all, every trait on display. The %s unfolded in a %s register, and by its end nothing between them was the same.", name, req.SceneType, tone),
		Summary:      fmt.Sprintf("%s faces a %s that changes everything.", name, req.SceneType),
		VisualPrompt: fmt.Sprintf("%s mid-%s, %s atmosphere", name, req.SceneType, tone),
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

var mockFactionNames = []string{
	"The Gilded Compact",
	"Order of the Ashen Veil",
	"The Tidebound",
	"Keepers of the Last Flame",
	"The Verdant Accord",
	"House of Broken Oaths",
	"The Silent Ledger",
	"Wardens of the Rim",
}

var mockLocationNames = []string{
	"Hollowmere",
	"The Sunken Archive",
	"Bastion Perch",
	"The Glass Steppe",
	"Nightharbor",
	"The Cinder Vaults",
	"Thornwall",
	"The Weeping Gate",
	"Skybreak Crossing",
	"The Pale Orchard",
	"Emberfall",
	"The Drowned Court",
}

var (
	mockFactionTypes  = []string{"guild", "order", "cult", "house"}
	mockAlignments    = []string{"lawful", "neutral", "chaotic"}
	mockInfluences    = []string{"high", "moderate", "low"}
	mockLocationTypes = []string{"city", "ruin", "wilderness", "stronghold"}
)

func (m *MockProvider) mockWorld(prompt string) (string, error) {
	req, err := extractRequest[WorldRequest](prompt)
	if err != nil {
		return "", err
	}

	magicLevel := "moderate"
	technologyLevel := "pre-industrial"
	if strings.Contains(strings.ToLower(req.Genre), "sci") {
		magicLevel = "none"
		technologyLevel = "advanced"
	}

	result := WorldResult{
		WorldSetting: WorldSetting{
			ID:              "world-1",
			Name:            fmt.Sprintf("The %s Expanse", capitalize(req.Genre)),
			Description:     fmt.Sprintf("A %s world of the %s era, steeped in %s. Its history turns on %s.", req.Genre, req.Era, req.Tone, strings.Join(req.Themes, " and ")),
			Genre:           req.Genre,
			Era:             req.Era,
			Tone:            req.Tone,
			Themes:          req.Themes,
			MagicLevel:      magicLevel,
			TechnologyLevel: technologyLevel,
		},
	}

	for i := 0; i < req.NumFactions; i++ {
		theme := req.Themes[i%len(req.Themes)]
		result.Factions = append(result.Factions, Faction{
			ID:          fmt.Sprintf("faction-%d", i+1),
			Name:        mockFactionNames[i%len(mockFactionNames)],
			Description: fmt.Sprintf("A %s shaped by %s, known across the %s era.", mockFactionTypes[i%len(mockFactionTypes)], theme, req.Era),
			FactionType: mockFactionTypes[i%len(mockFactionTypes)],
			Alignment:   mockAlignments[i%len(mockAlignments)],
			Values:      []string{theme, "loyalty"},
			Goals:       []string{fmt.Sprintf("control the levers of %s", theme)},
			Influence:   mockInfluences[i%len(mockInfluences)],
			AllyCount:   i % 3,
			EnemyCount:  (i + 1) % 3,
		})
	}

	for i := 0; i < req.NumLocations; i++ {
		result.Locations = append(result.Locations, Location{
			ID:           fmt.Sprintf("location-%d", i+1),
			Name:         mockLocationNames[i%len(mockLocationNames)],
			Description:  fmt.Sprintf("A %s marked by the %s of the %s era.", mockLocationTypes[i%len(mockLocationTypes)], req.Tone, req.Era),
			LocationType: mockLocationTypes[i%len(mockLocationTypes)],
		})
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
