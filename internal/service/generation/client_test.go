package generation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "loreweave-backend/pkg/errors"
)

func TestGenerateCharacter(t *testing.T) {
	provider := NewMockProvider()
	client := NewClient(provider, DefaultProfiles(), nil)
	ctx := context.Background()

	t.Run("MentorArchetype", func(t *testing.T) {
		result, err := client.GenerateCharacter(ctx, CharacterRequest{
			Concept:   "a reclusive wizard who guards forgotten knowledge",
			Archetype: "mentor",
			Tone:      "mysterious",
		})
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, "Eldrin the Wise", result.Name)
		assert.NotEmpty(t, result.Tagline)
		assert.NotEmpty(t, result.Bio)
		assert.NotEmpty(t, result.VisualPrompt)
		assert.NotEmpty(t, result.Traits)
	})

	t.Run("UnknownArchetypeStillProducesSheet", func(t *testing.T) {
		result, err := client.GenerateCharacter(ctx, CharacterRequest{
			Concept:   "a dockworker with a gambling debt",
			Archetype: "underdog",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, result.Name)
		assert.NotEmpty(t, result.Traits)
	})

	t.Run("MissingConcept", func(t *testing.T) {
		result, err := client.GenerateCharacter(ctx, CharacterRequest{
			Archetype: "mentor",
		})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, appErrors.IsValidation(err))
	})

	t.Run("ProviderUnavailable", func(t *testing.T) {
		provider.SetAvailable(false)
		defer provider.SetAvailable(true)

		result, err := client.GenerateCharacter(ctx, CharacterRequest{
			Concept:   "a reclusive wizard",
			Archetype: "mentor",
		})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, appErrors.IsUnavailable(err))
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		provider.SetError(fmt.Errorf("backend timeout"))
		defer provider.ClearErrors()

		result, err := client.GenerateCharacter(ctx, CharacterRequest{
			Concept:   "a reclusive wizard",
			Archetype: "mentor",
		})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, appErrors.IsExternal(err))
	})
}

func TestGenerateScene(t *testing.T) {
	provider := NewMockProvider()
	client := NewClient(provider, DefaultProfiles(), nil)
	ctx := context.Background()

	t.Run("SceneFromCharacterContext", func(t *testing.T) {
		result, err := client.GenerateScene(ctx, SceneRequest{
			CharacterContext: CharacterContext{
				Name:    "Eldrin the Wise",
				Tagline: "keeper of the old roads",
				Bio:     "A wandering teacher.",
				Traits:  []string{"patient", "cryptic"},
			},
			SceneType: "confrontation",
			Tone:      "tense",
		})
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Contains(t, result.Title, "Eldrin the Wise")
		assert.NotEmpty(t, result.Content)
		assert.NotEmpty(t, result.Summary)
		assert.NotEmpty(t, result.VisualPrompt)
	})

	t.Run("MissingSceneType", func(t *testing.T) {
		result, err := client.GenerateScene(ctx, SceneRequest{
			CharacterContext: CharacterContext{Name: "Eldrin the Wise"},
		})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, appErrors.IsValidation(err))
	})
}

func TestGenerateWorld(t *testing.T) {
	provider := NewMockProvider()
	client := NewClient(provider, DefaultProfiles(), nil)
	ctx := context.Background()

	t.Run("HonorsRequestedCounts", func(t *testing.T) {
		result, err := client.GenerateWorld(ctx, WorldRequest{
			Genre:        "dark fantasy",
			Era:          "age of ruin",
			Tone:         "grim",
			Themes:       []string{"decay", "faith"},
			NumFactions:  3,
			NumLocations: 4,
		})
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.NotEmpty(t, result.WorldSetting.Name)
		assert.NotEmpty(t, result.WorldSetting.Description)
		assert.Len(t, result.Factions, 3)
		assert.Len(t, result.Locations, 4)

		// Ids must be unique across the payload
		seen := make(map[string]bool)
		seen[result.WorldSetting.ID] = true
		for _, f := range result.Factions {
			assert.False(t, seen[f.ID], "duplicate id %s", f.ID)
			seen[f.ID] = true
		}
		for _, l := range result.Locations {
			assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
			seen[l.ID] = true
		}
	})

	t.Run("CountsOutOfRange", func(t *testing.T) {
		result, err := client.GenerateWorld(ctx, WorldRequest{
			Genre:        "dark fantasy",
			Era:          "age of ruin",
			Tone:         "grim",
			Themes:       []string{"decay"},
			NumFactions:  0,
			NumLocations: 4,
		})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, appErrors.IsValidation(err))
	})
}

func TestClientWithoutProvider(t *testing.T) {
	client := NewClient(nil, DefaultProfiles(), nil)

	assert.False(t, client.IsAvailable())

	_, err := client.GenerateCharacter(context.Background(), CharacterRequest{
		Concept:   "a reclusive wizard",
		Archetype: "mentor",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsUnavailable(err))
}
