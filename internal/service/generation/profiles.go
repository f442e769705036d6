package generation

// Profile tunes a single generation contract.
type Profile struct {
	Temperature float64 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
}

// Profiles carries per-contract tuning. The config layer can load overrides
// from a YAML profile file; zero-valued entries fall back to defaults.
type Profiles struct {
	Character Profile `yaml:"character" json:"character"`
	Scene     Profile `yaml:"scene" json:"scene"`
	World     Profile `yaml:"world" json:"world"`
}

// DefaultProfiles returns the tuning used when no profile file is present.
// World generation gets the largest budget because its payload carries the
// full faction and location rosters.
func DefaultProfiles() Profiles {
	return Profiles{
		Character: Profile{Temperature: 0.8, MaxTokens: 600},
		Scene:     Profile{Temperature: 0.9, MaxTokens: 900},
		World:     Profile{Temperature: 0.7, MaxTokens: 2000},
	}
}

// withDefaults fills zero-valued fields from the default profile set.
func (p Profiles) withDefaults() Profiles {
	defaults := DefaultProfiles()
	p.Character = p.Character.or(defaults.Character)
	p.Scene = p.Scene.or(defaults.Scene)
	p.World = p.World.or(defaults.World)
	return p
}

func (p Profile) or(fallback Profile) Profile {
	if p.Temperature == 0 {
		p.Temperature = fallback.Temperature
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = fallback.MaxTokens
	}
	return p
}
