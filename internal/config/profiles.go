package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"loreweave-backend/internal/service/generation"
)

// LoadProfiles reads generation tuning profiles from a YAML file. An empty
// path or a missing file returns the built-in defaults; partial files are
// fine because zero-valued entries fall back to defaults inside the client.
func LoadProfiles(path string) (generation.Profiles, error) {
	if path == "" {
		return generation.DefaultProfiles(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return generation.DefaultProfiles(), nil
		}
		return generation.Profiles{}, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var profiles generation.Profiles
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return generation.Profiles{}, fmt.Errorf("failed to parse profiles file %s: %w", path, err)
	}

	return profiles, nil
}
