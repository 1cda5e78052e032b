package s1_filter

import (
	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/internal/pipelineconfig"
)

// Exclusion reasons, in the order they are checked
const (
	ReasonSeasonType  = "season_type"
	ReasonPlayRule    = "play_rule"
	ReasonKneel       = "qb_kneel"
	ReasonSpike       = "qb_spike"
	ReasonTwoPoint    = "two_point_attempt"
	ReasonAborted     = "aborted_play"
	ReasonNoPosTeam   = "missing_posteam"
	ReasonNoDefTeam   = "missing_defteam"
	ReasonNoEPA       = "missing_epa"
	ReasonNoWP        = "missing_wp"
	ReasonGarbageTime = "garbage_time"
)

// Filter keeps the plays that count as competitive offensive snaps
// ⭐ SSOT: S0 → S1 play eligibility is decided only here
// Every dropped play is counted under the first reason it fails.
func Filter(plays []contracts.Play, profile pipelineconfig.FilterProfile) *contracts.FilteredPlays {
	out := &contracts.FilteredPlays{
		Plays:    make([]contracts.NormalizedPlay, 0, len(plays)),
		Excluded: make(map[string]int),
		Profile:  profile.Name,
		Input:    len(plays),
	}

	for i := range plays {
		if reason := checkExclusion(&plays[i], profile); reason != "" {
			out.Excluded[reason]++
			continue
		}
		out.Plays = append(out.Plays, contracts.Normalize(plays[i]))
	}

	return out
}

// checkExclusion returns why a play is dropped, or "" when it is kept
func checkExclusion(p *contracts.Play, profile pipelineconfig.FilterProfile) string {
	if profile.RegularSeasonOnly && p.SeasonType != contracts.SeasonTypeRegular {
		return ReasonSeasonType
	}

	if !matchesPlayRule(p, profile.PlayRule) {
		return ReasonPlayRule
	}

	switch {
	case p.QBKneel:
		return ReasonKneel
	case p.QBSpike:
		return ReasonSpike
	case p.TwoPointAttempt:
		return ReasonTwoPoint
	case p.AbortedPlay:
		return ReasonAborted
	}

	if p.PosTeam == "" {
		return ReasonNoPosTeam
	}
	if p.DefTeam == "" {
		return ReasonNoDefTeam
	}
	if !p.EPA.Valid {
		return ReasonNoEPA
	}

	if profile.GarbageTime.Enabled {
		if !p.WP.Valid {
			return ReasonNoWP
		}
		if p.WP.V < profile.GarbageTime.WPMin || p.WP.V > profile.GarbageTime.WPMax {
			return ReasonGarbageTime
		}
	}

	return ""
}

func matchesPlayRule(p *contracts.Play, rule string) bool {
	if rule == pipelineconfig.PlayRulePlayType {
		return p.PlayType == contracts.PlayTypePass || p.PlayType == contracts.PlayTypeRun
	}
	return p.Pass || p.Rush
}
