package contracts

// Side selects which team a play is credited to
type Side string

const (
	SideOffense Side = "offense" // grouped by posteam
	SideDefense Side = "defense" // grouped by defteam
)

// ParseSide validates a side name
func ParseSide(s string) (Side, bool) {
	switch Side(s) {
	case SideOffense, SideDefense:
		return Side(s), true
	default:
		return "", false
	}
}

// TeamStats is one team's season efficiency line for one side of the ball
// ⭐ SSOT: S2 team aggregate
// Rates are percentages (0-100).
type TeamStats struct {
	Team             string  `json:"team"`
	Side             Side    `json:"side"`
	Plays            int     `json:"plays"`
	EPAPerPlay       Float   `json:"epa_per_play"`
	SuccessRatePct   Float   `json:"success_rate"`
	FirstDownRatePct Float   `json:"first_down_rate"`
	DropbackEPA      Float   `json:"dropback_epa"`
	RushEPA          Float   `json:"rush_epa"`
	PassYards        int     `json:"pass_yards"`
	RushYards        int     `json:"rush_yards"`
	DropbackPct      Float   `json:"dropback_pct"`
	LogoURL          *string `json:"logo"`
}

// Situational split labels, in display order
const (
	SplitAll        = "All Plays"
	SplitRun        = "Run"
	SplitPass       = "Pass"
	SplitEarlyDowns = "Early Downs (1st/2nd)"
	SplitLateDowns  = "Late Downs (3rd/4th)"
)

// SplitLabels lists every split in display order
var SplitLabels = []string{SplitAll, SplitRun, SplitPass, SplitEarlyDowns, SplitLateDowns}

// SplitMetrics is the efficiency of one situational subset.
// Rates are fractions in [0,1].
type SplitMetrics struct {
	EPAPerPlay    Float `json:"epa_per_play"`
	SuccessRate   Float `json:"success_rate"`
	FirstDownRate Float `json:"first_down_rate"`
	Plays         int   `json:"plays"`
}

// SplitTable maps split label to metrics
type SplitTable map[string]SplitMetrics

// PlayerStats is one player's line within a role table.
// Rates are fractions in [0,1].
type PlayerStats struct {
	Player        string `json:"player"`
	EPAPerPlay    Float  `json:"epa_per_play"`
	TotalEPA      Float  `json:"total_epa"`
	SuccessRate   Float  `json:"success_rate"`
	FirstDownRate Float  `json:"first_down_rate"`
	Plays         int    `json:"plays"`
}

// Player roles
const (
	RolePassing   = "passing"   // dropbacks by passer
	RoleRushing   = "rushing"   // designed runs by rusher
	RoleReceiving = "receiving" // targets by receiver
)

// PlayerTables holds the three role tables for one team
type PlayerTables struct {
	Passing   []PlayerStats `json:"passing"`
	Rushing   []PlayerStats `json:"rushing"`
	Receiving []PlayerStats `json:"receiving"`
}

// Role returns the table for a role name
func (p *PlayerTables) Role(role string) []PlayerStats {
	switch role {
	case RolePassing:
		return p.Passing
	case RoleRushing:
		return p.Rushing
	case RoleReceiving:
		return p.Receiving
	default:
		return nil
	}
}
