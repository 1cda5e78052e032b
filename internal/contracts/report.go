package contracts

import (
	"encoding/json"
	"time"
)

// GameInfo is the metadata block of a game report
type GameInfo struct {
	GameID    string  `json:"game_id"`
	Season    int     `json:"season"`
	Week      int     `json:"week"`
	GameType  string  `json:"game_type"`
	Gameday   string  `json:"gameday,omitempty"`
	HomeTeam  string  `json:"home_team"`
	AwayTeam  string  `json:"away_team"`
	HomeScore *int    `json:"home_score"`
	AwayScore *int    `json:"away_score"`
	HomeLogo  *string `json:"home_logo"`
	AwayLogo  *string `json:"away_logo"`
}

// HomeAway pairs a value for each team of a game
type HomeAway[T any] struct {
	Home T `json:"home"`
	Away T `json:"away"`
}

// GameReport is the single-game JSON document
// ⭐ SSOT: S3 output
type GameReport struct {
	Game        GameInfo               `json:"game"`
	TeamStats   HomeAway[SplitTable]   `json:"team_stats"`
	PlayerStats HomeAway[PlayerTables] `json:"player_stats"`
	Profile     string                 `json:"profile"`
	Plays       int                    `json:"plays"`
	Sample      []PlaySample           `json:"sample_plays"`
}

// SampleSize is how many filtered plays a game report quotes
const SampleSize = 20

// PlaySample is one quoted play of a game report
type PlaySample struct {
	PosTeam   string `json:"posteam"`
	Down      int    `json:"down"`
	YardsToGo int    `json:"ydstogo"`
	PlayType  string `json:"play_type"`
	EPA       Float  `json:"epa"`
	Desc      string `json:"desc"`
}

// Samples quotes the first n plays in input order
func Samples(plays []NormalizedPlay, n int) []PlaySample {
	n = min(n, len(plays))
	out := make([]PlaySample, 0, n)
	for _, p := range plays[:n] {
		out = append(out, PlaySample{
			PosTeam:   p.PosTeam,
			Down:      p.Down,
			YardsToGo: p.YardsToGo,
			PlayType:  p.PlayType,
			EPA:       p.EPA,
			Desc:      p.Desc,
		})
	}
	return out
}

// OffenseFields are the off_* columns of an export record
type OffenseFields struct {
	OffEPA         Float `json:"off_epa"`
	OffSuccessRate Float `json:"off_success_rate"`
	OffDropbackEPA Float `json:"off_dropback_epa"`
	OffRushEPA     Float `json:"off_rush_epa"`
	OffPlays       int   `json:"off_plays"`
	OffPassYards   int   `json:"off_pass_yards"`
	OffRushYards   int   `json:"off_rush_yards"`
	OffDropbackPct Float `json:"off_dropback_pct"`
}

// DefenseFields are the def_* columns of an export record
type DefenseFields struct {
	DefEPA         Float `json:"def_epa"`
	DefSuccessRate Float `json:"def_success_rate"`
	DefDropbackEPA Float `json:"def_dropback_epa"`
	DefRushEPA     Float `json:"def_rush_epa"`
	DefPlays       int   `json:"def_plays"`
	DefPassYards   int   `json:"def_pass_yards"`
	DefRushYards   int   `json:"def_rush_yards"`
	DefDropbackPct Float `json:"def_dropback_pct"`
}

// ExportRecord merges a team's offense and defense lines into one object.
// A nil side is omitted from the JSON entirely.
type ExportRecord struct {
	*OffenseFields
	*DefenseFields
}

// ExportDocument is the batch export payload keyed by team code
type ExportDocument map[string]ExportRecord

// Snapshot is a persisted export run
type Snapshot struct {
	RunID       string          `json:"run_id"`
	Season      int             `json:"season"`
	TeamCount   int             `json:"team_count"`
	ProfileHash string          `json:"profile_hash"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}
