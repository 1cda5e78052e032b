package s0_data

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	parquet "github.com/parquet-go/parquet-go"

	"github.com/wonny/nflepa/internal/contracts"
)

// pbpColumn binds one play-by-play column to a Play field.
// Exactly one of text or num is set.
type pbpColumn struct {
	name string
	text func(p *contracts.Play, v string)
	num  func(p *contracts.Play, v float64)
}

func textCol(name string, set func(p *contracts.Play, v string)) pbpColumn {
	return pbpColumn{name: name, text: set}
}

func numCol(name string, set func(p *contracts.Play, v float64)) pbpColumn {
	return pbpColumn{name: name, num: set}
}

func intCol(name string, set func(p *contracts.Play, v int)) pbpColumn {
	return numCol(name, func(p *contracts.Play, v float64) { set(p, int(math.Round(v))) })
}

func flagCol(name string, set func(p *contracts.Play, v bool)) pbpColumn {
	return numCol(name, func(p *contracts.Play, v float64) { set(p, v != 0) })
}

// pbpColumns are the columns read from parquet assets. nflverse mixes
// physical types (season and week are INT32, most indicators DOUBLE), so
// numeric columns accept any integer, float or boolean encoding.
var pbpColumns = []pbpColumn{
	textCol("game_id", func(p *contracts.Play, v string) { p.GameID = v }),
	intCol("play_id", func(p *contracts.Play, v int) { p.PlayID = v }),
	intCol("season", func(p *contracts.Play, v int) { p.Season = v }),
	intCol("week", func(p *contracts.Play, v int) { p.Week = v }),
	textCol("season_type", func(p *contracts.Play, v string) { p.SeasonType = v }),
	textCol("home_team", func(p *contracts.Play, v string) { p.HomeTeam = v }),
	textCol("away_team", func(p *contracts.Play, v string) { p.AwayTeam = v }),
	textCol("posteam", func(p *contracts.Play, v string) { p.PosTeam = v }),
	textCol("defteam", func(p *contracts.Play, v string) { p.DefTeam = v }),

	intCol("down", func(p *contracts.Play, v int) { p.Down = v }),
	intCol("ydstogo", func(p *contracts.Play, v int) { p.YardsToGo = v }),
	textCol("play_type", func(p *contracts.Play, v string) { p.PlayType = v }),
	numCol("yards_gained", func(p *contracts.Play, v float64) { p.YardsGained = v }),

	flagCol("qb_dropback", func(p *contracts.Play, v bool) { p.QBDropback = v }),
	flagCol("qb_kneel", func(p *contracts.Play, v bool) { p.QBKneel = v }),
	flagCol("qb_spike", func(p *contracts.Play, v bool) { p.QBSpike = v }),
	flagCol("qb_scramble", func(p *contracts.Play, v bool) { p.QBScramble = v }),
	flagCol("pass_attempt", func(p *contracts.Play, v bool) { p.PassAttempt = v }),
	flagCol("rush_attempt", func(p *contracts.Play, v bool) { p.RushAttempt = v }),
	flagCol("pass", func(p *contracts.Play, v bool) { p.Pass = v }),
	flagCol("rush", func(p *contracts.Play, v bool) { p.Rush = v }),
	flagCol("two_point_attempt", func(p *contracts.Play, v bool) { p.TwoPointAttempt = v }),
	flagCol("aborted_play", func(p *contracts.Play, v bool) { p.AbortedPlay = v }),
	flagCol("success", func(p *contracts.Play, v bool) { p.Success = v }),
	flagCol("first_down", func(p *contracts.Play, v bool) { p.FirstDown = v }),

	numCol("epa", func(p *contracts.Play, v float64) { p.EPA = contracts.Some(v) }),
	numCol("wp", func(p *contracts.Play, v float64) { p.WP = contracts.Some(v) }),

	textCol("passer_player_name", func(p *contracts.Play, v string) { p.PasserName = v }),
	textCol("rusher_player_name", func(p *contracts.Play, v string) { p.RusherName = v }),
	textCol("receiver_player_name", func(p *contracts.Play, v string) { p.ReceiverName = v }),
	textCol("desc", func(p *contracts.Play, v string) { p.Desc = v }),
}

// ParsePlaysParquet decodes a play-by-play parquet asset.
// Missing required columns and columns whose physical type cannot carry
// the field are errors, never silent zeros.
func ParsePlaysParquet(data []byte) ([]contracts.Play, error) {
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	bound, err := bindColumns(f.Schema())
	if err != nil {
		return nil, err
	}

	plays := make([]contracts.Play, 0, f.NumRows())
	buf := make([]parquet.Row, 256)
	for _, rg := range f.RowGroups() {
		if plays, err = readRowGroup(rg, bound, buf, plays); err != nil {
			return nil, err
		}
	}
	return plays, nil
}

// bindColumns maps leaf column indexes to their binding and checks types
func bindColumns(schema *parquet.Schema) (map[int]pbpColumn, error) {
	bound := make(map[int]pbpColumn, len(pbpColumns))
	for _, col := range pbpColumns {
		leaf, ok := schema.Lookup(col.name)
		if !ok {
			continue
		}
		if leaf.MaxRepetitionLevel > 0 {
			return nil, fmt.Errorf("column %s: repeated columns are not supported", col.name)
		}
		if err := checkKind(col, leaf.Node.Type().Kind()); err != nil {
			return nil, err
		}
		bound[leaf.ColumnIndex] = col
	}

	var missing []string
	for _, name := range playColumns {
		if leaf, ok := schema.Lookup(name); !ok || bound[leaf.ColumnIndex].name != name {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return bound, nil
}

func checkKind(col pbpColumn, kind parquet.Kind) error {
	switch kind {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		if col.text != nil {
			return nil
		}
	case parquet.Boolean, parquet.Int32, parquet.Int64, parquet.Float, parquet.Double:
		if col.num != nil {
			return nil
		}
	}
	want := "numeric"
	if col.text != nil {
		want = "string"
	}
	return fmt.Errorf("column %s: physical type %s, want %s", col.name, kind, want)
}

func readRowGroup(rg parquet.RowGroup, bound map[int]pbpColumn, buf []parquet.Row, plays []contracts.Play) ([]contracts.Play, error) {
	rows := rg.Rows()
	defer rows.Close()

	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			var p contracts.Play
			for _, v := range row {
				col, ok := bound[v.Column()]
				if !ok || v.IsNull() {
					continue
				}
				setValue(&p, col, v)
			}
			plays = append(plays, p)
		}
		if errors.Is(err, io.EOF) {
			return plays, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}
}

func setValue(p *contracts.Play, col pbpColumn, v parquet.Value) {
	if col.text != nil {
		if s := string(v.ByteArray()); s != "NA" {
			col.text(p, s)
		}
		return
	}

	var f float64
	switch v.Kind() {
	case parquet.Boolean:
		if v.Boolean() {
			f = 1
		}
	case parquet.Int32:
		f = float64(v.Int32())
	case parquet.Int64:
		f = float64(v.Int64())
	case parquet.Float:
		f = float64(v.Float())
	default:
		f = v.Double()
	}
	if math.IsNaN(f) {
		return
	}
	col.num(p, f)
}
