package contracts

// Season types as published by nflverse
const (
	SeasonTypeRegular = "REG"
	SeasonTypePost    = "POST"
)

// Play types the single-game profile keeps
const (
	PlayTypePass = "pass"
	PlayTypeRun  = "run"
)

// Play is one play-by-play row, typed at the loader boundary
// ⭐ SSOT: S0 → S1 play record
// Absent optional strings are "", absent indicators are false.
type Play struct {
	GameID     string `json:"game_id"`
	PlayID     int    `json:"play_id"`
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	SeasonType string `json:"season_type"` // REG, POST
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	PosTeam    string `json:"posteam,omitempty"` // offense
	DefTeam    string `json:"defteam,omitempty"` // defense

	Down        int     `json:"down,omitempty"` // 0 when absent
	YardsToGo   int     `json:"ydstogo,omitempty"`
	PlayType    string  `json:"play_type,omitempty"`
	YardsGained float64 `json:"yards_gained"`

	QBDropback      bool `json:"qb_dropback,omitempty"`
	QBKneel         bool `json:"qb_kneel,omitempty"`
	QBSpike         bool `json:"qb_spike,omitempty"`
	QBScramble      bool `json:"qb_scramble,omitempty"`
	PassAttempt     bool `json:"pass_attempt,omitempty"`
	RushAttempt     bool `json:"rush_attempt,omitempty"`
	Pass            bool `json:"pass,omitempty"`
	Rush            bool `json:"rush,omitempty"`
	TwoPointAttempt bool `json:"two_point_attempt,omitempty"`
	AbortedPlay     bool `json:"aborted_play,omitempty"`
	Success         bool `json:"success,omitempty"`
	FirstDown       bool `json:"first_down,omitempty"`

	EPA Float `json:"epa"`
	WP  Float `json:"wp"`

	PasserName   string `json:"passer_player_name,omitempty"`
	RusherName   string `json:"rusher_player_name,omitempty"`
	ReceiverName string `json:"receiver_player_name,omitempty"`

	Desc string `json:"desc,omitempty"`
}

// IsEarlyDown reports 1st or 2nd down
func (p *Play) IsEarlyDown() bool {
	return p.Down == 1 || p.Down == 2
}

// IsLateDown reports 3rd or 4th down
func (p *Play) IsLateDown() bool {
	return p.Down == 3 || p.Down == 4
}

// NormalizedPlay is a Play that survived filtering, with derived flags
// ⭐ SSOT: S1 → S2 play record
// IsPass and IsRun are never both true.
type NormalizedPlay struct {
	Play
	IsPass bool `json:"is_pass"`
	IsRun  bool `json:"is_run"`
}

// Normalize derives the pass/run flags for a play.
// Dropbacks are passes, including scrambles and sacks.
func Normalize(p Play) NormalizedPlay {
	return NormalizedPlay{
		Play:   p,
		IsPass: p.QBDropback,
		IsRun:  p.PlayType == PlayTypeRun && !p.QBDropback,
	}
}

// FilteredPlays is the output of S1
type FilteredPlays struct {
	Plays    []NormalizedPlay `json:"plays"`
	Excluded map[string]int   `json:"excluded"` // reason -> count
	Profile  string           `json:"profile"`
	Input    int              `json:"input"`
}

// Count returns the number of surviving plays
func (f *FilteredPlays) Count() int {
	return len(f.Plays)
}

// ExcludedCount returns the number of dropped plays
func (f *FilteredPlays) ExcludedCount() int {
	total := 0
	for _, n := range f.Excluded {
		total += n
	}
	return total
}

// ForGame restricts plays to a single game id
func ForGame(plays []Play, gameID string) []Play {
	out := make([]Play, 0, 192)
	for i := range plays {
		if plays[i].GameID == gameID {
			out = append(out, plays[i])
		}
	}
	return out
}
