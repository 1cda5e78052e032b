package s4_export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/internal/pipelineconfig"
	"github.com/wonny/nflepa/pkg/logger"
)

type fakeSource struct {
	plays []contracts.Play
	err   error
}

func (f *fakeSource) Plays(ctx context.Context, season int) ([]contracts.Play, error) {
	return f.plays, f.err
}

func (f *fakeSource) Schedule(ctx context.Context, season int) (*contracts.Schedule, error) {
	return &contracts.Schedule{Season: season}, nil
}

func (f *fakeSource) Teams(ctx context.Context) ([]contracts.TeamDescriptor, error) {
	return nil, nil
}

type fakeStore struct {
	saved []*contracts.Snapshot
	err   error
}

func (f *fakeStore) Save(ctx context.Context, s *contracts.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeStore) Latest(ctx context.Context, season int) (*contracts.Snapshot, error) {
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].Season == season {
			return f.saved[i], nil
		}
	}
	return nil, ErrNoSnapshot
}

func seasonPlay(off, def string, epa float64, pass bool) contracts.Play {
	p := contracts.Play{
		Season:      2025,
		SeasonType:  contracts.SeasonTypeRegular,
		PosTeam:     off,
		DefTeam:     def,
		Down:        1,
		Success:     epa > 0,
		EPA:         contracts.Some(epa),
		YardsGained: 5,
	}
	if pass {
		p.PlayType = contracts.PlayTypePass
		p.QBDropback = true
		p.PassAttempt = true
		p.Pass = true
	} else {
		p.PlayType = contracts.PlayTypeRun
		p.RushAttempt = true
		p.Rush = true
	}
	return p
}

func fixturePlays() []contracts.Play {
	postseason := seasonPlay("KC", "BUF", 2.0, true)
	postseason.SeasonType = contracts.SeasonTypePost

	return []contracts.Play{
		seasonPlay("KC", "DET", 0.4, true),
		seasonPlay("KC", "DET", -0.1, false),
		seasonPlay("DET", "KC", 0.2, true),
		seasonPlay("SF", "ARI", 0.3, false),
		postseason,
	}
}

func newTestExporter(src contracts.SeasonSource, store contracts.SnapshotStore) *Exporter {
	return NewExporter(src, store, pipelineconfig.Default(), logger.Nop())
}

func TestExport_WritesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", "data", "team_stats.json")
	exp := newTestExporter(&fakeSource{plays: fixturePlays()}, nil)

	result, err := exp.Export(context.Background(), Options{Season: 2025, Path: path})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Teams)
	assert.Equal(t, 4, result.Plays)
	assert.Equal(t, 1, result.Excluded["season_type"])
	assert.False(t, result.Persisted)
	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, result.Bytes, len(data))
	assert.True(t, bytes.HasSuffix(data, []byte("}\n")))
	assert.True(t, bytes.HasPrefix(data, []byte("{\n  \"ARI\": {\n    \"def_epa\"")), "sorted keys, 2-space indent")

	var doc map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	kc := doc["KC"]
	assert.Equal(t, float64(2), kc["off_plays"])
	assert.InDelta(t, 0.15, kc["off_epa"], 1e-9)
	assert.InDelta(t, 50.0, kc["off_success_rate"], 1e-9)
	assert.InDelta(t, 0.4, kc["off_dropback_epa"], 1e-9)
	assert.Equal(t, float64(5), kc["off_pass_yards"])
	assert.Equal(t, float64(1), kc["def_plays"])
	assert.InDelta(t, 0.0, kc["def_success_rate"], 1e-9)

	// One-sided teams carry only that side
	sf := doc["SF"]
	assert.Contains(t, sf, "off_epa")
	assert.NotContains(t, sf, "def_epa")
	assert.Nil(t, sf["off_dropback_epa"], "no dropbacks renders null")
	assert.NotContains(t, doc["ARI"], "off_epa")
}

func TestExport_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team_stats.json")
	exp := newTestExporter(&fakeSource{plays: fixturePlays()}, nil)

	_, err := exp.Export(context.Background(), Options{Season: 2025, Path: path})
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = exp.Export(context.Background(), Options{Season: 2025, Path: path})
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExport_NoPlays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team_stats.json")
	kneel := seasonPlay("KC", "DET", -0.5, false)
	kneel.QBKneel = true

	exp := newTestExporter(&fakeSource{plays: []contracts.Play{kneel}}, nil)
	result, err := exp.Export(context.Background(), Options{Season: 2025, Path: path})
	require.ErrorIs(t, err, ErrNoPlays)
	assert.Nil(t, result)
	assert.Equal(t, "No data found after filtering.", err.Error())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing written")
}

func TestExport_UpstreamFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team_stats.json")
	cause := errors.New("404 Not Found")

	exp := newTestExporter(&fakeSource{err: cause}, nil)
	_, err := exp.Export(context.Background(), Options{Season: 2025, Path: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, strings.HasPrefix(err.Error(), "Error loading data: "))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_Persist(t *testing.T) {
	store := &fakeStore{}
	exp := newTestExporter(&fakeSource{plays: fixturePlays()}, store)
	path := filepath.Join(t.TempDir(), "team_stats.json")

	result, err := exp.Export(context.Background(), Options{Season: 2025, Path: path, Persist: true})
	require.NoError(t, err)
	assert.True(t, result.Persisted)

	require.Len(t, store.saved, 1)
	snap := store.saved[0]
	assert.Equal(t, result.RunID, snap.RunID)
	assert.Equal(t, 2025, snap.Season)
	assert.Equal(t, 4, snap.TeamCount)
	assert.NotEmpty(t, snap.ProfileHash)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(snap.Payload))
}

func TestExport_PersistFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	exp := newTestExporter(&fakeSource{plays: fixturePlays()}, store)

	_, err := exp.Export(context.Background(), Options{Season: 2025, Path: filepath.Join(t.TempDir(), "out.json"), Persist: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save snapshot")
}

func TestExport_PersistWithoutStore(t *testing.T) {
	exp := newTestExporter(&fakeSource{plays: fixturePlays()}, nil)

	result, err := exp.Export(context.Background(), Options{Season: 2025, Path: filepath.Join(t.TempDir(), "out.json"), Persist: true})
	require.NoError(t, err)
	assert.False(t, result.Persisted)
}

func TestMarshal_FieldOrder(t *testing.T) {
	doc := BuildDocument(
		[]contracts.TeamStats{{Team: "KC", Plays: 10, EPAPerPlay: contracts.Some(0.1)}},
		[]contracts.TeamStats{{Team: "KC", Plays: 8, EPAPerPlay: contracts.Some(-0.05)}},
	)

	data, err := Marshal(doc)
	require.NoError(t, err)

	want := `{
  "KC": {
    "off_epa": 0.1,
    "off_success_rate": null,
    "off_dropback_epa": null,
    "off_rush_epa": null,
    "off_plays": 10,
    "off_pass_yards": 0,
    "off_rush_yards": 0,
    "off_dropback_pct": null,
    "def_epa": -0.05,
    "def_success_rate": null,
    "def_dropback_epa": null,
    "def_rush_epa": null,
    "def_plays": 8,
    "def_pass_yards": 0,
    "def_rush_yards": 0,
    "def_dropback_pct": null
  }
}
`
	assert.Equal(t, want, string(data))
}

func TestMarshal_Empty(t *testing.T) {
	data, err := Marshal(BuildDocument(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}
