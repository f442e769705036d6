package generation

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"loreweave-backend/pkg/errors"
)

// Client is the typed facade over a generation provider. It owns prompt
// construction, payload parsing, and contract validation so callers deal
// only in request and result structs.
type Client struct {
	provider Provider
	profiles Profiles
	validate *validator.Validate
	logger   *zap.Logger
}

// NewClient creates a generation client with the given provider and tuning.
func NewClient(provider Provider, profiles Profiles, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		provider: provider,
		profiles: profiles.withDefaults(),
		validate: validator.New(),
		logger:   logger,
	}
}

// IsAvailable returns true if the underlying provider can serve requests.
func (c *Client) IsAvailable() bool {
	return c.provider != nil && c.provider.IsAvailable()
}

// GenerateCharacter produces a character sheet from a concept and archetype.
func (c *Client) GenerateCharacter(ctx context.Context, req CharacterRequest) (*CharacterResult, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid character request: %v", err))
	}
	if !c.IsAvailable() {
		return nil, errors.NewUnavailable("generation provider is not available")
	}

	response, err := c.provider.Complete(ctx, buildCharacterPrompt(req), CompletionOptions{
		Temperature: c.profiles.Character.Temperature,
		MaxTokens:   c.profiles.Character.MaxTokens,
		Format:      "json",
	})
	if err != nil {
		return nil, wrapProviderError("character generation failed", err)
	}

	result, err := parseResponse[CharacterResult](response)
	if err != nil {
		return nil, errors.NewExternal("malformed character payload", err)
	}
	if err := c.validate.Struct(result); err != nil {
		return nil, errors.NewExternal("incomplete character payload", err)
	}

	c.logger.Debug("character generated",
		zap.String("name", result.Name),
		zap.Int("trait_count", len(result.Traits)),
	)
	return &result, nil
}

// GenerateScene produces a scene featuring an existing character.
func (c *Client) GenerateScene(ctx context.Context, req SceneRequest) (*SceneResult, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid scene request: %v", err))
	}
	if !c.IsAvailable() {
		return nil, errors.NewUnavailable("generation provider is not available")
	}

	response, err := c.provider.Complete(ctx, buildScenePrompt(req), CompletionOptions{
		Temperature: c.profiles.Scene.Temperature,
		MaxTokens:   c.profiles.Scene.MaxTokens,
		Format:      "json",
	})
	if err != nil {
		return nil, wrapProviderError("scene generation failed", err)
	}

	result, err := parseResponse[SceneResult](response)
	if err != nil {
		return nil, errors.NewExternal("malformed scene payload", err)
	}
	if err := c.validate.Struct(result); err != nil {
		return nil, errors.NewExternal("incomplete scene payload", err)
	}

	c.logger.Debug("scene generated", zap.String("title", result.Title))
	return &result, nil
}

// GenerateWorld produces a world overview with faction and location rosters.
func (c *Client) GenerateWorld(ctx context.Context, req WorldRequest) (*WorldResult, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid world request: %v", err))
	}
	if !c.IsAvailable() {
		return nil, errors.NewUnavailable("generation provider is not available")
	}

	response, err := c.provider.Complete(ctx, buildWorldPrompt(req), CompletionOptions{
		Temperature: c.profiles.World.Temperature,
		MaxTokens:   c.profiles.World.MaxTokens,
		Format:      "json",
	})
	if err != nil {
		return nil, wrapProviderError("world generation failed", err)
	}

	result, err := parseResponse[WorldResult](response)
	if err != nil {
		return nil, errors.NewExternal("malformed world payload", err)
	}
	if err := c.validate.Struct(result); err != nil {
		return nil, errors.NewExternal("incomplete world payload", err)
	}

	c.logger.Debug("world generated",
		zap.String("name", result.WorldSetting.Name),
		zap.Int("faction_count", len(result.Factions)),
		zap.Int("location_count", len(result.Locations)),
	)
	return &result, nil
}

// wrapProviderError keeps unavailability visible through the taxonomy while
// treating everything else as an upstream failure.
func wrapProviderError(message string, err error) error {
	if errors.IsUnavailable(err) {
		return err
	}
	return errors.NewExternal(message, err)
}
