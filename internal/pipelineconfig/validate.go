package pipelineconfig

import (
	"fmt"
)

// ValidationError is a fatal config problem
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning is a recommended-practice violation (logged only)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.ProfileSetID == "" {
		return ValidationError{"meta.profile_set_id", "required"}
	}

	// === Profiles ===
	profiles := []struct {
		field   string
		profile FilterProfile
	}{
		{"profiles.batch", cfg.Profiles.Batch},
		{"profiles.game", cfg.Profiles.Game},
		{"profiles.interactive", cfg.Profiles.Interactive},
	}
	for _, p := range profiles {
		if err := validateProfile(p.field, p.profile); err != nil {
			return err
		}
	}

	// === Players ===
	if !validSortKey(cfg.Players.SortKey) {
		return ValidationError{"players.sort_key", fmt.Sprintf("unknown sort key %q", cfg.Players.SortKey)}
	}
	if cfg.Players.MinPlays < 0 {
		return ValidationError{"players.min_plays", "must be >= 0"}
	}

	return nil
}

func validateProfile(field string, p FilterProfile) error {
	if p.Name == "" {
		return ValidationError{field + ".name", "required"}
	}
	if p.PlayRule != PlayRuleIndicator && p.PlayRule != PlayRulePlayType {
		return ValidationError{field + ".play_rule", "must be indicator or play_type"}
	}

	g := p.GarbageTime
	if g.Enabled {
		if g.WPMin < 0 || g.WPMin > 1 {
			return ValidationError{field + ".garbage_time.wp_min", "must be in range [0, 1]"}
		}
		if g.WPMax < 0 || g.WPMax > 1 {
			return ValidationError{field + ".garbage_time.wp_max", "must be in range [0, 1]"}
		}
		if g.WPMin >= g.WPMax {
			return ValidationError{field + ".garbage_time", "wp_min must be < wp_max"}
		}
	}

	return nil
}

func validSortKey(key string) bool {
	switch key {
	case SortTotalEPA, SortEPAPerPlay, SortSuccessRate, SortFirstDownRate, SortPlays:
		return true
	default:
		return false
	}
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	for _, p := range cfg.All() {
		if !p.RegularSeasonOnly {
			warnings = append(warnings, Warning{
				Code:    "POSTSEASON_INCLUDED",
				Message: fmt.Sprintf("profile %s mixes postseason plays into season aggregates", p.Name),
			})
		}
		if p.GarbageTime.Enabled && p.GarbageTime.WPMax-p.GarbageTime.WPMin < 0.5 {
			warnings = append(warnings, Warning{
				Code:    "NARROW_WP_WINDOW",
				Message: fmt.Sprintf("profile %s keeps only plays with WP in [%.2f, %.2f]", p.Name, p.GarbageTime.WPMin, p.GarbageTime.WPMax),
			})
		}
	}

	if !cfg.Profiles.Game.GarbageTime.Enabled {
		warnings = append(warnings, Warning{
			Code:    "GAME_GARBAGE_TIME_OFF",
			Message: "single-game reports include garbage-time snaps",
		})
	}

	return warnings
}
