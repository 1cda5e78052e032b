package s2_aggregate

import (
	"math"
	"sort"

	"github.com/wonny/nflepa/internal/contracts"
)

// teamAccumulator splits one team's plays by derived play kind
type teamAccumulator struct {
	all  accumulator
	pass accumulator
	run  accumulator
}

// TeamStats aggregates filtered plays into one line per team
// ⭐ SSOT: S1 → S2 team efficiency
// Offense groups by posteam, defense by defteam. Rows come back ordered by team code.
func TeamStats(plays []contracts.NormalizedPlay, side contracts.Side) []contracts.TeamStats {
	groups := make(map[string]*teamAccumulator)

	for i := range plays {
		p := &plays[i]
		team := p.PosTeam
		if side == contracts.SideDefense {
			team = p.DefTeam
		}
		if team == "" {
			continue
		}

		acc, ok := groups[team]
		if !ok {
			acc = &teamAccumulator{}
			groups[team] = acc
		}

		acc.all.add(p)
		switch {
		case p.IsPass:
			acc.pass.add(p)
		case p.IsRun:
			acc.run.add(p)
		}
	}

	out := make([]contracts.TeamStats, 0, len(groups))
	for team, acc := range groups {
		out = append(out, acc.stats(team, side))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}

func (t *teamAccumulator) stats(team string, side contracts.Side) contracts.TeamStats {
	success := t.all.successRate()
	if side == contracts.SideDefense && success.Valid {
		// Defense is credited with the offense's failures
		success = contracts.Some(1 - success.V)
	}

	return contracts.TeamStats{
		Team:             team,
		Side:             side,
		Plays:            t.all.plays,
		EPAPerPlay:       t.all.meanEPA(),
		SuccessRatePct:   success.Scale(100),
		FirstDownRatePct: t.all.firstDownRate().Scale(100),
		DropbackEPA:      t.pass.meanEPA(),
		RushEPA:          t.run.meanEPA(),
		PassYards:        int(math.Round(t.pass.yards)),
		RushYards:        int(math.Round(t.run.yards)),
		DropbackPct:      contracts.Ratio(float64(t.pass.plays), float64(t.all.plays)).Scale(100),
	}
}

// SortTeamStats orders rows best first: offense by EPA/play descending,
// defense ascending. Rows without EPA sort last, ties by team code.
func SortTeamStats(rows []contracts.TeamStats, side contracts.Side) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].EPAPerPlay, rows[j].EPAPerPlay
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.V != b.V {
			if side == contracts.SideDefense {
				return a.V < b.V
			}
			return a.V > b.V
		}
		return rows[i].Team < rows[j].Team
	})
}

// AttachLogos left-joins team logos by abbreviation.
// Teams without a descriptor keep a nil logo.
func AttachLogos(rows []contracts.TeamStats, index contracts.TeamIndex) {
	for i := range rows {
		rows[i].LogoURL = index.Logo(rows[i].Team)
	}
}
