package s0_data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const releaseListing = `<html><body>
<div class="Box">
  <ul>
    <li><a href="/nflverse/nflverse-data/releases/download/pbp/play_by_play_2023.csv.gz"><span>play_by_play_2023.csv.gz</span></a></li>
    <li><a href="/nflverse/nflverse-data/releases/download/pbp/play_by_play_2023.parquet"><span>play_by_play_2023.parquet</span></a></li>
    <li><a href="/nflverse/nflverse-data/releases/download/pbp/play_by_play_1999.rds">play_by_play_1999.rds</a></li>
    <li><a href="/nflverse/nflverse-data/releases/download/pbp/play_by_play_2024.csv.gz">play_by_play_2024.csv.gz</a></li>
    <li><a href="/nflverse/nflverse-data/releases/download/pbp/pbp_participation_2023.csv">participation</a></li>
    <li><a href="/nflverse/nflverse-data/archive/refs/tags/pbp.zip">Source code (zip)</a></li>
  </ul>
</div>
</body></html>`

func TestParseSeasonAssets(t *testing.T) {
	seasons, err := ParseSeasonAssets(strings.NewReader(releaseListing))
	require.NoError(t, err)

	assert.Equal(t, []int{1999, 2023, 2024}, seasons)
}

func TestParseSeasonAssets_Empty(t *testing.T) {
	seasons, err := ParseSeasonAssets(strings.NewReader("<html></html>"))
	require.NoError(t, err)
	assert.Empty(t, seasons)
}
