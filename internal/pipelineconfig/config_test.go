package pipelineconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/nflepa/internal/contracts"
)

func TestLoad_ShippedDefaults(t *testing.T) {
	path := "../../config/pipeline/default.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	// The shipped file documents the built-in profiles exactly
	assert.Equal(t, Default(), cfg)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	defaultHash, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, defaultHash, hash)
}

func TestDefault_ModeProfiles(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	batch := cfg.ForMode(contracts.ModeBatch)
	assert.Equal(t, PlayRuleIndicator, batch.PlayRule)
	assert.False(t, batch.GarbageTime.Enabled)
	assert.True(t, batch.RegularSeasonOnly)

	game := cfg.ForMode(contracts.ModeGame)
	assert.Equal(t, PlayRulePlayType, game.PlayRule)
	assert.True(t, game.GarbageTime.Enabled)
	assert.Equal(t, 0.05, game.GarbageTime.WPMin)
	assert.Equal(t, 0.95, game.GarbageTime.WPMax)

	interactive := cfg.ForMode(contracts.ModeInteractive)
	assert.Equal(t, "interactive", interactive.Name)

	assert.Len(t, cfg.All(), 3)
}

func TestParse_PartialOverride(t *testing.T) {
	cfg, err := Parse([]byte(`
profiles:
  batch:
    garbage_time:
      enabled: true
players:
  sort_key: epa_per_play
`))
	require.NoError(t, err)

	assert.True(t, cfg.Profiles.Batch.GarbageTime.Enabled)
	assert.Equal(t, 0.05, cfg.Profiles.Batch.GarbageTime.WPMin, "unset fields keep defaults")
	assert.Equal(t, PlayRuleIndicator, cfg.Profiles.Batch.PlayRule)
	assert.Equal(t, SortEPAPerPlay, cfg.Players.SortKey)
}

func TestParse_UnknownFieldFails(t *testing.T) {
	_, err := Parse([]byte(`
profiles:
  batch:
    garbage_tme:
      enabled: true
`))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("players:\n  min_plays: 3\n"), 0o644))

	cfg, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Players.MinPlays)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"missing id", func(c *Config) { c.Meta.ProfileSetID = "" }, "meta.profile_set_id"},
		{"unknown play rule", func(c *Config) { c.Profiles.Game.PlayRule = "snap" }, "profiles.game.play_rule"},
		{"missing name", func(c *Config) { c.Profiles.Batch.Name = "" }, "profiles.batch.name"},
		{"wp min above one", func(c *Config) { c.Profiles.Game.GarbageTime.WPMin = 1.5 }, "profiles.game.garbage_time.wp_min"},
		{"wp window inverted", func(c *Config) {
			c.Profiles.Game.GarbageTime.WPMin = 0.9
			c.Profiles.Game.GarbageTime.WPMax = 0.1
		}, "profiles.game.garbage_time"},
		{"disabled window is not checked", func(c *Config) {
			c.Profiles.Batch.GarbageTime.WPMin = 0.9
			c.Profiles.Batch.GarbageTime.WPMax = 0.1
		}, ""},
		{"unknown sort key", func(c *Config) { c.Players.SortKey = "yards" }, "players.sort_key"},
		{"negative min plays", func(c *Config) { c.Players.MinPlays = -1 }, "players.min_plays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestWarn(t *testing.T) {
	assert.Empty(t, Warn(Default()))

	cfg := Default()
	cfg.Profiles.Game.GarbageTime.Enabled = false
	cfg.Profiles.Batch.RegularSeasonOnly = false
	cfg.Profiles.Interactive.GarbageTime = GarbageTime{Enabled: true, WPMin: 0.3, WPMax: 0.7}

	codes := make(map[string]bool)
	for _, w := range Warn(cfg) {
		codes[w.Code] = true
	}
	assert.True(t, codes["GAME_GARBAGE_TIME_OFF"])
	assert.True(t, codes["POSTSEASON_INCLUDED"])
	assert.True(t, codes["NARROW_WP_WINDOW"])
}

func TestHash_ChangesWithProfile(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)

	cfg := Default()
	cfg.Profiles.Game.GarbageTime.WPMin = 0.1
	b, err := Hash(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
