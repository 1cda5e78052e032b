package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/nflepa/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// Every command prints through these so output stays uniform
// ═══════════════════════════════════════════════════════════

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}

// PrintTitle prints a boxed section title
func PrintTitle(w io.Writer, title string) {
	fmt.Fprintln(w)
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  %s\n", title)
	PrintSeparator(w)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "⚠️  %s\n", message)
	fmt.Fprintln(w)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintf(w, "ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	// Separator line
	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(w io.Writer, values []string, widths []int) {
	var b strings.Builder
	for i, val := range values {
		fmt.Fprintf(&b, "%-*s", widths[i], val)
		if i < len(values)-1 {
			b.WriteString("  ")
		}
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintExcluded prints per-reason exclusion counts in reason order
func PrintExcluded(w io.Writer, excluded map[string]int) {
	if len(excluded) == 0 {
		return
	}
	reasons := make([]string, 0, len(excluded))
	for r := range excluded {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)

	fmt.Fprintln(w, "   Excluded:")
	for _, r := range reasons {
		fmt.Fprintf(w, "     %-18s %d\n", r, excluded[r])
	}
}

// ═══════════════════════════════════════════════════════════
// Domain tables
// ═══════════════════════════════════════════════════════════

// pct renders a fraction in [0,1] as a percentage
func pct(f contracts.Float) string {
	if !f.Valid {
		return "-"
	}
	return strconv.FormatFloat(f.V*100, 'f', 1, 64) + "%"
}

// pctPoints renders a value already in percent
func pctPoints(f contracts.Float) string {
	if !f.Valid {
		return "-"
	}
	return strconv.FormatFloat(f.V, 'f', 1, 64) + "%"
}

var (
	teamColumns = []string{"#", "Team", "Plays", "EPA/Play", "Success", "1st Down", "Dropback EPA", "Rush EPA", "Pass Yds", "Rush Yds", "Dropback%"}
	teamWidths  = []int{3, 5, 6, 9, 8, 9, 12, 9, 9, 9, 9}

	splitColumns = []string{"Split", "EPA/Play", "Success", "1st Down", "Plays"}
	splitWidths  = []int{22, 9, 8, 9, 6}

	playerColumns = []string{"Player", "EPA/Play", "Total EPA", "Success", "1st Down", "Plays"}
	playerWidths  = []int{22, 9, 10, 8, 9, 6}

	sampleColumns = []string{"Team", "Down", "To Go", "Type", "EPA", "Description"}
	sampleWidths  = []int{5, 5, 6, 8, 7, 60}

	gameColumns = []string{"Game ID", "Game", "Score"}
	gameWidths  = []int{18, 22, 7}
)

// PrintTeamTable prints a season dashboard in rank order
func PrintTeamTable(w io.Writer, rows []contracts.TeamStats) {
	PrintTableHeader(w, teamColumns, teamWidths)
	for i, r := range rows {
		PrintTableRow(w, []string{
			strconv.Itoa(i + 1),
			r.Team,
			strconv.Itoa(r.Plays),
			r.EPAPerPlay.String(),
			pctPoints(r.SuccessRatePct),
			pctPoints(r.FirstDownRatePct),
			r.DropbackEPA.String(),
			r.RushEPA.String(),
			strconv.Itoa(r.PassYards),
			strconv.Itoa(r.RushYards),
			pctPoints(r.DropbackPct),
		}, teamWidths)
	}
}

// PrintSplitTable prints a team's situational splits in display order
func PrintSplitTable(w io.Writer, splits contracts.SplitTable) {
	PrintTableHeader(w, splitColumns, splitWidths)
	for _, label := range contracts.SplitLabels {
		m := splits[label]
		PrintTableRow(w, []string{
			label,
			m.EPAPerPlay.String(),
			pct(m.SuccessRate),
			pct(m.FirstDownRate),
			strconv.Itoa(m.Plays),
		}, splitWidths)
	}
}

// PrintPlayerTable prints one role table; empty tables print a placeholder
func PrintPlayerTable(w io.Writer, role string, rows []contracts.PlayerStats) {
	fmt.Fprintf(w, "\n  %s\n", strings.ToUpper(role[:1])+role[1:])
	if len(rows) == 0 {
		fmt.Fprintln(w, "   (none)")
		return
	}
	PrintTableHeader(w, playerColumns, playerWidths)
	for _, p := range rows {
		PrintTableRow(w, []string{
			p.Player,
			p.EPAPerPlay.String(),
			p.TotalEPA.String(),
			pct(p.SuccessRate),
			pct(p.FirstDownRate),
			strconv.Itoa(p.Plays),
		}, playerWidths)
	}
}

// PrintGameReport prints a single-game report as terminal tables
func PrintGameReport(w io.Writer, report *contracts.GameReport) {
	g := report.Game
	PrintTitle(w, fmt.Sprintf("%s  ·  Week %d: %s @ %s", g.GameID, g.Week, g.AwayTeam, g.HomeTeam))
	if g.AwayScore != nil && g.HomeScore != nil {
		PrintKeyValue(w, "Final", fmt.Sprintf("%s %d, %s %d", g.AwayTeam, *g.AwayScore, g.HomeTeam, *g.HomeScore), 8)
	}
	PrintKeyValue(w, "Profile", report.Profile, 8)
	PrintKeyValue(w, "Plays", strconv.Itoa(report.Plays), 8)

	sides := []struct {
		team    string
		splits  contracts.SplitTable
		players contracts.PlayerTables
	}{
		{g.AwayTeam, report.TeamStats.Away, report.PlayerStats.Away},
		{g.HomeTeam, report.TeamStats.Home, report.PlayerStats.Home},
	}
	for _, s := range sides {
		PrintTitle(w, s.team+" offense")
		PrintSplitTable(w, s.splits)
		for _, role := range []string{contracts.RolePassing, contracts.RoleRushing, contracts.RoleReceiving} {
			PrintPlayerTable(w, role, s.players.Role(role))
		}
	}

	if len(report.Sample) > 0 {
		PrintTitle(w, fmt.Sprintf("First %d plays", len(report.Sample)))
		PrintSampleTable(w, report.Sample)
	}
	fmt.Fprintln(w)
}

// PrintSampleTable prints quoted plays; long descriptions are cut
func PrintSampleTable(w io.Writer, sample []contracts.PlaySample) {
	const descWidth = 60

	PrintTableHeader(w, sampleColumns, sampleWidths)
	for _, p := range sample {
		desc := []rune(p.Desc)
		if len(desc) > descWidth {
			desc = append(desc[:descWidth-1], '…')
		}
		PrintTableRow(w, []string{
			p.PosTeam,
			strconv.Itoa(p.Down),
			strconv.Itoa(p.YardsToGo),
			p.PlayType,
			p.EPA.String(),
			string(desc),
		}, sampleWidths)
	}
}

// PrintGameChoices prints enumerated game choices
func PrintGameChoices(w io.Writer, games []contracts.Game) {
	PrintTableHeader(w, gameColumns, gameWidths)
	for _, g := range games {
		score := "-"
		if g.Played() {
			score = fmt.Sprintf("%d-%d", *g.AwayScore, *g.HomeScore)
		}
		PrintTableRow(w, []string{
			g.GameID,
			g.Label(),
			score,
		}, gameWidths)
	}
}
