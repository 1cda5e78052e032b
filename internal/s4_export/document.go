package s4_export

import (
	"encoding/json"
	"fmt"

	"github.com/wonny/nflepa/internal/contracts"
)

// BuildDocument merges offense and defense team lines into one record per team.
// A team that only appears on one side gets only that side's fields.
func BuildDocument(offense, defense []contracts.TeamStats) contracts.ExportDocument {
	doc := make(contracts.ExportDocument, len(offense))

	for _, row := range offense {
		rec := doc[row.Team]
		rec.OffenseFields = &contracts.OffenseFields{
			OffEPA:         row.EPAPerPlay,
			OffSuccessRate: row.SuccessRatePct,
			OffDropbackEPA: row.DropbackEPA,
			OffRushEPA:     row.RushEPA,
			OffPlays:       row.Plays,
			OffPassYards:   row.PassYards,
			OffRushYards:   row.RushYards,
			OffDropbackPct: row.DropbackPct,
		}
		doc[row.Team] = rec
	}

	for _, row := range defense {
		rec := doc[row.Team]
		rec.DefenseFields = &contracts.DefenseFields{
			DefEPA:         row.EPAPerPlay,
			DefSuccessRate: row.SuccessRatePct,
			DefDropbackEPA: row.DropbackEPA,
			DefRushEPA:     row.RushEPA,
			DefPlays:       row.Plays,
			DefPassYards:   row.PassYards,
			DefRushYards:   row.RushYards,
			DefDropbackPct: row.DropbackPct,
		}
		doc[row.Team] = rec
	}

	return doc
}

// Marshal renders the document as 2-space indented JSON with a trailing newline.
// Team keys come out sorted, so equal documents produce equal bytes.
func Marshal(doc contracts.ExportDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return append(data, '\n'), nil
}
