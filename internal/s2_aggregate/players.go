package s2_aggregate

import (
	"sort"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/internal/pipelineconfig"
)

// PlayerOptions controls player table shape
type PlayerOptions struct {
	SortKey  string
	MinPlays int
}

// PlayerOptionsFrom adapts pipeline config options
func PlayerOptionsFrom(cfg pipelineconfig.PlayerOptions) PlayerOptions {
	return PlayerOptions{SortKey: cfg.SortKey, MinPlays: cfg.MinPlays}
}

// roleRule selects the plays and player credited for a role
type roleRule func(p *contracts.NormalizedPlay) (string, bool)

var (
	passingRule roleRule = func(p *contracts.NormalizedPlay) (string, bool) {
		return p.PasserName, p.IsPass
	}
	rushingRule roleRule = func(p *contracts.NormalizedPlay) (string, bool) {
		return p.RusherName, p.RushAttempt && !p.QBDropback
	}
	receivingRule roleRule = func(p *contracts.NormalizedPlay) (string, bool) {
		return p.ReceiverName, p.PassAttempt
	}
)

// PlayerTables builds the passing, rushing and receiving tables for a team's offense
// ⭐ SSOT: S2 player aggregates
// Plays without a credited player name never form a group.
func PlayerTables(plays []contracts.NormalizedPlay, team string, opts PlayerOptions) contracts.PlayerTables {
	teamPlays := make([]*contracts.NormalizedPlay, 0, len(plays))
	for i := range plays {
		if plays[i].PosTeam == team {
			teamPlays = append(teamPlays, &plays[i])
		}
	}

	return contracts.PlayerTables{
		Passing:   roleTable(teamPlays, passingRule, opts),
		Rushing:   roleTable(teamPlays, rushingRule, opts),
		Receiving: roleTable(teamPlays, receivingRule, opts),
	}
}

func roleTable(plays []*contracts.NormalizedPlay, rule roleRule, opts PlayerOptions) []contracts.PlayerStats {
	groups := make(map[string]*accumulator)

	for _, p := range plays {
		name, ok := rule(p)
		if !ok || name == "" {
			continue
		}
		acc, exists := groups[name]
		if !exists {
			acc = &accumulator{}
			groups[name] = acc
		}
		acc.add(p)
	}

	out := make([]contracts.PlayerStats, 0, len(groups))
	for name, acc := range groups {
		if acc.plays < opts.MinPlays {
			continue
		}
		out = append(out, contracts.PlayerStats{
			Player:        name,
			EPAPerPlay:    acc.meanEPA(),
			TotalEPA:      acc.totalEPA(),
			SuccessRate:   acc.successRate(),
			FirstDownRate: acc.firstDownRate(),
			Plays:         acc.plays,
		})
	}

	SortPlayers(out, opts.SortKey)
	return out
}

// SortPlayers orders a role table by key descending, ties by name ascending.
// Unknown keys sort by total EPA.
func SortPlayers(rows []contracts.PlayerStats, key string) {
	value := sortValue(key)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := value(&rows[i]), value(&rows[j])
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.V != b.V {
			return a.V > b.V
		}
		return rows[i].Player < rows[j].Player
	})
}

func sortValue(key string) func(p *contracts.PlayerStats) contracts.Float {
	switch key {
	case pipelineconfig.SortEPAPerPlay:
		return func(p *contracts.PlayerStats) contracts.Float { return p.EPAPerPlay }
	case pipelineconfig.SortSuccessRate:
		return func(p *contracts.PlayerStats) contracts.Float { return p.SuccessRate }
	case pipelineconfig.SortFirstDownRate:
		return func(p *contracts.PlayerStats) contracts.Float { return p.FirstDownRate }
	case pipelineconfig.SortPlays:
		return func(p *contracts.PlayerStats) contracts.Float { return contracts.Some(float64(p.Plays)) }
	default:
		return func(p *contracts.PlayerStats) contracts.Float { return p.TotalEPA }
	}
}
