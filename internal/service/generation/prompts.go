package generation

import (
	"encoding/json"
	"fmt"
)

// buildCharacterPrompt creates a prompt for character sheet generation
func buildCharacterPrompt(req CharacterRequest) string {
	return fmt.Sprintf(`You are a narrative worldbuilding assistant. Create a character sheet for the request below.

Request:
%s

Return a JSON object with this structure:
{"name": "character name", "tagline": "one-line hook", "bio": "2-3 sentence biography", "visual_prompt": "portrait description for an image model", "traits": ["trait", "trait", "trait"]}

Rules:
1. The character must embody the requested archetype
2. The bio must ground the character in the stated concept
3. Keep the tagline under 15 words
4. Provide 3-5 traits as short lowercase phrases
5. Match the requested tone when one is given
6. Return only the JSON object, no commentary
`, compactJSON(req))
}

// buildScenePrompt creates a prompt for scene generation
func buildScenePrompt(req SceneRequest) string {
	return fmt.Sprintf(`You are a narrative worldbuilding assistant. Write a scene featuring the character in the request below.

Request:
%s

Return a JSON object with this structure:
{"title": "scene title", "content": "the scene prose", "summary": "one-sentence summary", "visual_prompt": "key frame description for an image model"}

Rules:
1. The scene must match the requested scene type
2. Stay consistent with the character's bio and traits
3. Keep content to 2-4 paragraphs
4. Match the requested tone when one is given
5. Return only the JSON object, no commentary
`, compactJSON(req))
}

// buildWorldPrompt creates a prompt for world overview generation
func buildWorldPrompt(req WorldRequest) string {
	return fmt.Sprintf(`You are a narrative worldbuilding assistant. Generate a world overview for the request below.

Request:
%s

Return a JSON object with this structure:
{"world_setting": {"id": "world id", "name": "world name", "description": "world description", "genre": "genre", "era": "era", "tone": "tone", "themes": ["theme"], "magic_level": "none|low|moderate|high", "technology_level": "primitive|pre-industrial|industrial|advanced"}, "factions": [{"id": "faction id", "name": "faction name", "description": "faction description", "faction_type": "guild|order|cult|house", "alignment": "lawful|neutral|chaotic", "values": ["value"], "goals": ["goal"], "influence": "low|moderate|high", "ally_count": 0, "enemy_count": 0}], "locations": [{"id": "location id", "name": "location name", "description": "location description", "location_type": "city|ruin|wilderness|stronghold"}]}

Rules:
1. Produce exactly num_factions factions and num_locations locations
2. Weave the requested themes through the descriptions
3. Factions must have distinct goals that can conflict
4. Every id must be unique within the payload
5. Return only the JSON object, no commentary
`, compactJSON(req))
}

// compactJSON renders a request on a single line for prompt embedding.
func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
