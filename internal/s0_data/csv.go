package s0_data

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wonny/nflepa/internal/contracts"
)

// gzipMagic is the two-byte gzip header
var gzipMagic = []byte{0x1f, 0x8b}

// table is a header-indexed CSV reader.
// "NA" and empty cells read as absent.
type table struct {
	r      *csv.Reader
	index  map[string]int
	record []string
}

// openTable reads the header row, transparently un-gzipping the stream
func openTable(r io.Reader) (*table, io.Closer, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	var closer io.Closer = io.NopCloser(nil)

	head, err := br.Peek(2)
	if err == nil && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip stream: %w", err)
		}
		closer = gz
		r = gz
	} else {
		r = br
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		closer.Close()
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty table: missing header row")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	return &table{r: cr, index: index}, closer, nil
}

// require fails when any of the named columns is missing
func (t *table) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// next advances to the next record; io.EOF at end
func (t *table) next() error {
	rec, err := t.r.Read()
	if err != nil {
		return err
	}
	t.record = rec
	return nil
}

// str returns the cell, or "" when absent
func (t *table) str(col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(t.record) {
		return ""
	}
	v := strings.TrimSpace(t.record[i])
	if v == "NA" || v == "NaN" {
		return ""
	}
	return v
}

// float returns the cell as an optional real
func (t *table) float(col string) contracts.Float {
	v := t.str(col)
	if v == "" {
		return contracts.None()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return contracts.None()
	}
	return contracts.Some(f)
}

// intVal returns the cell as an integer, 0 when absent
func (t *table) intVal(col string) int {
	f := t.float(col)
	if !f.Valid {
		return 0
	}
	return int(math.Round(f.V))
}

// optInt returns the cell as an optional integer
func (t *table) optInt(col string) *int {
	f := t.float(col)
	if !f.Valid {
		return nil
	}
	v := int(math.Round(f.V))
	return &v
}

// flag reads a 0/1 indicator; absent reads as false
func (t *table) flag(col string) bool {
	f := t.float(col)
	return f.Valid && f.V != 0
}

// playColumns are required in every play-by-play table
var playColumns = []string{
	"game_id", "season", "season_type", "posteam", "defteam",
	"play_type", "epa", "success", "qb_dropback",
}

// ParsePlaysCSV decodes a (optionally gzipped) play-by-play CSV
func ParsePlaysCSV(r io.Reader) ([]contracts.Play, error) {
	t, closer, err := openTable(r)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	if err := t.require(playColumns...); err != nil {
		return nil, err
	}

	plays := make([]contracts.Play, 0, 50000)
	line := 1
	for {
		err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		plays = append(plays, contracts.Play{
			GameID:     t.str("game_id"),
			PlayID:     t.intVal("play_id"),
			Season:     t.intVal("season"),
			Week:       t.intVal("week"),
			SeasonType: t.str("season_type"),
			HomeTeam:   t.str("home_team"),
			AwayTeam:   t.str("away_team"),
			PosTeam:    t.str("posteam"),
			DefTeam:    t.str("defteam"),

			Down:        t.intVal("down"),
			YardsToGo:   t.intVal("ydstogo"),
			PlayType:    t.str("play_type"),
			YardsGained: t.float("yards_gained").Or(0),

			QBDropback:      t.flag("qb_dropback"),
			QBKneel:         t.flag("qb_kneel"),
			QBSpike:         t.flag("qb_spike"),
			QBScramble:      t.flag("qb_scramble"),
			PassAttempt:     t.flag("pass_attempt"),
			RushAttempt:     t.flag("rush_attempt"),
			Pass:            t.flag("pass"),
			Rush:            t.flag("rush"),
			TwoPointAttempt: t.flag("two_point_attempt"),
			AbortedPlay:     t.flag("aborted_play"),
			Success:         t.flag("success"),
			FirstDown:       t.flag("first_down"),

			EPA: t.float("epa"),
			WP:  t.float("wp"),

			PasserName:   t.str("passer_player_name"),
			RusherName:   t.str("rusher_player_name"),
			ReceiverName: t.str("receiver_player_name"),
			Desc:         t.str("desc"),
		})
	}

	return plays, nil
}

// ParseScheduleCSV decodes games.csv, keeping one season
func ParseScheduleCSV(r io.Reader, season int) ([]contracts.Game, error) {
	t, closer, err := openTable(r)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	if err := t.require("game_id", "season", "week", "away_team", "home_team"); err != nil {
		return nil, err
	}

	var games []contracts.Game
	line := 1
	for {
		err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if t.intVal("season") != season {
			continue
		}

		games = append(games, contracts.Game{
			GameID:    t.str("game_id"),
			Season:    season,
			GameType:  t.str("game_type"),
			Week:      t.intVal("week"),
			Gameday:   t.str("gameday"),
			AwayTeam:  t.str("away_team"),
			HomeTeam:  t.str("home_team"),
			AwayScore: t.optInt("away_score"),
			HomeScore: t.optInt("home_score"),
		})
	}

	return games, nil
}

// ParseTeamsCSV decodes teams_colors_logos.csv
func ParseTeamsCSV(r io.Reader) ([]contracts.TeamDescriptor, error) {
	t, closer, err := openTable(r)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	if err := t.require("team_abbr"); err != nil {
		return nil, err
	}

	var teams []contracts.TeamDescriptor
	line := 1
	for {
		err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		abbr := t.str("team_abbr")
		if abbr == "" {
			continue
		}

		teams = append(teams, contracts.TeamDescriptor{
			Abbr:         abbr,
			Name:         t.str("team_name"),
			Nick:         t.str("team_nick"),
			Conference:   t.str("team_conf"),
			Division:     t.str("team_division"),
			LogoURL:      t.str("team_logo_espn"),
			PrimaryColor: t.str("team_color"),
		})
	}

	return teams, nil
}
