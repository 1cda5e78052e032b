package s2_aggregate

import (
	"github.com/wonny/nflepa/internal/contracts"
)

// accumulator collects running sums for one group of plays
type accumulator struct {
	plays     int
	epa       float64
	success   int
	firstDown int
	yards     float64
}

func (a *accumulator) add(p *contracts.NormalizedPlay) {
	a.plays++
	a.epa += p.EPA.Or(0)
	a.yards += p.YardsGained
	if p.Success {
		a.success++
	}
	if p.FirstDown {
		a.firstDown++
	}
}

func (a *accumulator) meanEPA() contracts.Float {
	return contracts.Ratio(a.epa, float64(a.plays))
}

func (a *accumulator) totalEPA() contracts.Float {
	if a.plays == 0 {
		return contracts.None()
	}
	return contracts.Some(a.epa)
}

func (a *accumulator) successRate() contracts.Float {
	return contracts.Ratio(float64(a.success), float64(a.plays))
}

func (a *accumulator) firstDownRate() contracts.Float {
	return contracts.Ratio(float64(a.firstDown), float64(a.plays))
}

// split returns the situational metrics of the group
func (a *accumulator) split() contracts.SplitMetrics {
	return contracts.SplitMetrics{
		EPAPerPlay:    a.meanEPA(),
		SuccessRate:   a.successRate(),
		FirstDownRate: a.firstDownRate(),
		Plays:         a.plays,
	}
}
