package pipelineconfig

import (
	"github.com/wonny/nflepa/internal/contracts"
)

// Play rules select which rows count as offensive snaps
const (
	PlayRuleIndicator = "indicator" // pass == 1 OR rush == 1
	PlayRulePlayType  = "play_type" // play_type in {pass, run}
)

// Player table sort keys
const (
	SortTotalEPA      = "total_epa"
	SortEPAPerPlay    = "epa_per_play"
	SortSuccessRate   = "success_rate"
	SortFirstDownRate = "first_down_rate"
	SortPlays         = "plays"
)

// Config is the full set of pipeline filter profiles
type Config struct {
	Meta     Meta          `yaml:"meta" json:"meta"`
	Profiles Profiles      `yaml:"profiles" json:"profiles"`
	Players  PlayerOptions `yaml:"players" json:"players"`
}

// Meta identifies a profile set
type Meta struct {
	ProfileSetID string `yaml:"profile_set_id" json:"profile_set_id"`
	Version      string `yaml:"version" json:"version"`
}

// Profiles holds one filter profile per execution mode
type Profiles struct {
	Batch       FilterProfile `yaml:"batch" json:"batch"`
	Game        FilterProfile `yaml:"game" json:"game"`
	Interactive FilterProfile `yaml:"interactive" json:"interactive"`
}

// FilterProfile parameterizes S1
type FilterProfile struct {
	Name              string      `yaml:"name" json:"name"`
	RegularSeasonOnly bool        `yaml:"regular_season_only" json:"regular_season_only"`
	PlayRule          string      `yaml:"play_rule" json:"play_rule"`
	GarbageTime       GarbageTime `yaml:"garbage_time" json:"garbage_time"`
}

// GarbageTime is the win-probability window filter.
// Bounds are inclusive; plays without a win probability fail the filter.
type GarbageTime struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	WPMin   float64 `yaml:"wp_min" json:"wp_min"`
	WPMax   float64 `yaml:"wp_max" json:"wp_max"`
}

// PlayerOptions controls S2 player tables
type PlayerOptions struct {
	SortKey  string `yaml:"sort_key" json:"sort_key"`
	MinPlays int    `yaml:"min_plays" json:"min_plays"`
}

// Default returns the built-in profile set
func Default() *Config {
	garbage := GarbageTime{Enabled: false, WPMin: 0.05, WPMax: 0.95}

	return &Config{
		Meta: Meta{
			ProfileSetID: "nflepa_default",
			Version:      "1",
		},
		Profiles: Profiles{
			Batch: FilterProfile{
				Name:              "batch",
				RegularSeasonOnly: true,
				PlayRule:          PlayRuleIndicator,
				GarbageTime:       garbage,
			},
			Game: FilterProfile{
				Name:              "game",
				RegularSeasonOnly: true,
				PlayRule:          PlayRulePlayType,
				GarbageTime:       GarbageTime{Enabled: true, WPMin: 0.05, WPMax: 0.95},
			},
			Interactive: FilterProfile{
				Name:              "interactive",
				RegularSeasonOnly: true,
				PlayRule:          PlayRuleIndicator,
				GarbageTime:       garbage,
			},
		},
		Players: PlayerOptions{
			SortKey:  SortTotalEPA,
			MinPlays: 0,
		},
	}
}

// ForMode returns the filter profile a mode runs with
func (c *Config) ForMode(mode contracts.Mode) FilterProfile {
	switch mode {
	case contracts.ModeGame:
		return c.Profiles.Game
	case contracts.ModeInteractive:
		return c.Profiles.Interactive
	default:
		return c.Profiles.Batch
	}
}

// All returns every profile in mode order
func (c *Config) All() []FilterProfile {
	return []FilterProfile{c.Profiles.Batch, c.Profiles.Game, c.Profiles.Interactive}
}
