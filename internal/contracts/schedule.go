package contracts

import (
	"fmt"
	"sort"
)

// GameTypeRegular is the schedule game_type of regular season games
const GameTypeRegular = "REG"

// Game is one schedule row
// ⭐ SSOT: S0 schedule record
type Game struct {
	GameID    string `json:"game_id"`
	Season    int    `json:"season"`
	GameType  string `json:"game_type"` // REG, WC, DIV, CON, SB
	Week      int    `json:"week"`
	Gameday   string `json:"gameday,omitempty"`
	AwayTeam  string `json:"away_team"`
	HomeTeam  string `json:"home_team"`
	AwayScore *int   `json:"away_score"`
	HomeScore *int   `json:"home_score"`
}

// Label renders the game as an enumerated choice
func (g Game) Label() string {
	return fmt.Sprintf("Week %d: %s @ %s", g.Week, g.AwayTeam, g.HomeTeam)
}

// Postseason reports whether the game is a playoff round (WC, DIV, CON, SB).
// An empty game type counts as regular season.
func (g Game) Postseason() bool {
	return g.GameType != "" && g.GameType != GameTypeRegular
}

// Played reports whether a final score is known
func (g Game) Played() bool {
	return g.AwayScore != nil && g.HomeScore != nil
}

// Schedule is the set of games in one season
type Schedule struct {
	Season int    `json:"season"`
	Games  []Game `json:"games"`
}

// Find returns the game with the given id
func (s *Schedule) Find(gameID string) (Game, bool) {
	for _, g := range s.Games {
		if g.GameID == gameID {
			return g, true
		}
	}
	return Game{}, false
}

// Week returns the games of one week, ordered by gameday then id.
// week <= 0 returns every game.
func (s *Schedule) Week(week int) []Game {
	out := make([]Game, 0, 16)
	for _, g := range s.Games {
		if week <= 0 || g.Week == week {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		if out[i].Gameday != out[j].Gameday {
			return out[i].Gameday < out[j].Gameday
		}
		return out[i].GameID < out[j].GameID
	})
	return out
}

// RegularSeason returns a copy holding only regular season games
func (s *Schedule) RegularSeason() *Schedule {
	out := &Schedule{Season: s.Season, Games: make([]Game, 0, len(s.Games))}
	for _, g := range s.Games {
		if !g.Postseason() {
			out.Games = append(out.Games, g)
		}
	}
	return out
}

// Weeks returns the distinct week numbers, ascending
func (s *Schedule) Weeks() []int {
	seen := make(map[int]bool)
	weeks := make([]int, 0, 22)
	for _, g := range s.Games {
		if !seen[g.Week] {
			seen[g.Week] = true
			weeks = append(weeks, g.Week)
		}
	}
	sort.Ints(weeks)
	return weeks
}

// TeamDescriptor is one row of the team descriptor table
type TeamDescriptor struct {
	Abbr         string `json:"team_abbr"`
	Name         string `json:"team_name"`
	Nick         string `json:"team_nick,omitempty"`
	Conference   string `json:"team_conf,omitempty"`
	Division     string `json:"team_division,omitempty"`
	LogoURL      string `json:"team_logo_espn,omitempty"`
	PrimaryColor string `json:"team_color,omitempty"`
}

// TeamIndex maps team abbreviation to descriptor
type TeamIndex map[string]TeamDescriptor

// NewTeamIndex builds an index from descriptor rows
func NewTeamIndex(teams []TeamDescriptor) TeamIndex {
	idx := make(TeamIndex, len(teams))
	for _, t := range teams {
		idx[t.Abbr] = t
	}
	return idx
}

// Logo returns the logo URL for a team, or nil when unknown
func (idx TeamIndex) Logo(abbr string) *string {
	t, ok := idx[abbr]
	if !ok || t.LogoURL == "" {
		return nil
	}
	logo := t.LogoURL
	return &logo
}
