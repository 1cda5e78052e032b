package s2_aggregate

import (
	"github.com/wonny/nflepa/internal/contracts"
)

// TeamSplits computes situational efficiency for one team's offense.
// Every label is present; empty subsets carry null rates and zero plays.
func TeamSplits(plays []contracts.NormalizedPlay, team string) contracts.SplitTable {
	var all, run, pass, early, late accumulator

	for i := range plays {
		p := &plays[i]
		if p.PosTeam != team {
			continue
		}

		all.add(p)
		if p.IsRun {
			run.add(p)
		}
		if p.IsPass {
			pass.add(p)
		}
		if p.IsEarlyDown() {
			early.add(p)
		}
		if p.IsLateDown() {
			late.add(p)
		}
	}

	return contracts.SplitTable{
		contracts.SplitAll:        all.split(),
		contracts.SplitRun:        run.split(),
		contracts.SplitPass:       pass.split(),
		contracts.SplitEarlyDowns: early.split(),
		contracts.SplitLateDowns:  late.split(),
	}
}
