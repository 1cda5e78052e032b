package s0_data

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/nflepa/pkg/config"
	"github.com/wonny/nflepa/pkg/httputil"
	"github.com/wonny/nflepa/pkg/logger"
)

// newTestUpstream serves a fake nflverse release
func newTestUpstream(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	gz := gzipBytes(t, pbpSample)

	mux := http.NewServeMux()
	mux.HandleFunc("/pbp/play_by_play_2023.csv.gz", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.Write(gz)
	})
	mux.HandleFunc("/games.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scheduleSample))
	})
	mux.HandleFunc("/teams.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("team_abbr,team_name,team_logo_espn\nKC,Kansas City Chiefs,https://example.com/kc.png\nDET,Detroit Lions,https://example.com/det.png\n"))
	})
	mux.HandleFunc("/releases", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(releaseListing))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{
		Env:      "development",
		LogLevel: "error",
		NFLVerse: config.NFLVerseConfig{
			PBPBaseURL:  baseURL + "/pbp/",
			ScheduleURL: baseURL + "/games.csv",
			TeamsURL:    baseURL + "/teams.csv",
			ReleasesURL: baseURL + "/releases",
			PBPFormat:   FormatCSV,
		},
		HTTP: config.HTTPConfig{Timeout: 5 * time.Second},
	}
	log := logger.Nop()
	return NewClient(httputil.New(cfg, log), cfg, log)
}

func TestClient_PlaysURL(t *testing.T) {
	c := newTestClient("https://example.com")
	assert.Equal(t, "https://example.com/pbp/play_by_play_2023.csv.gz", c.PlaysURL(2023))

	c.cfg.PBPFormat = FormatParquet
	assert.Equal(t, "https://example.com/pbp/play_by_play_2023.parquet", c.PlaysURL(2023))
}

func TestClient_Fetch(t *testing.T) {
	server := newTestUpstream(t, nil)
	c := newTestClient(server.URL)
	ctx := context.Background()

	plays, err := c.FetchPlays(ctx, 2023)
	require.NoError(t, err)
	assert.Len(t, plays, 4)

	schedule, err := c.FetchSchedule(ctx, 2023)
	require.NoError(t, err)
	assert.Equal(t, 2023, schedule.Season)
	assert.Len(t, schedule.Games, 3)

	teams, err := c.FetchTeams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	seasons, err := c.ListSeasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1999, 2023, 2024}, seasons)
}

func TestClient_MissingSeason(t *testing.T) {
	server := newTestUpstream(t, nil)
	c := newTestClient(server.URL)

	_, err := c.FetchPlays(context.Background(), 1980)
	require.Error(t, err)

	var statusErr *httputil.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	// 404s do not count against the breaker
	for i := 0; i < 5; i++ {
		_, _ = c.FetchPlays(context.Background(), 1980)
	}
	assert.Equal(t, "closed", c.BreakerState())
}

func TestClient_BreakerOpensOnUpstreamFailure(t *testing.T) {
	server := newTestUpstream(t, nil)
	c := newTestClient(server.URL)
	c.cfg.ScheduleURL = server.URL + "/broken"
	c.httpClient.NoRetry()

	for i := 0; i < 3; i++ {
		_, err := c.FetchSchedule(context.Background(), 2023)
		require.Error(t, err)
	}
	assert.Equal(t, "open", c.BreakerState())

	// Open breaker fails fast for every asset
	_, err := c.FetchTeams(context.Background())
	assert.Error(t, err)
}

func TestIsBreakerSuccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"not found", &httputil.StatusError{StatusCode: 404}, true},
		{"rate limited", &httputil.StatusError{StatusCode: 429}, false},
		{"server error", &httputil.StatusError{StatusCode: 503}, false},
		{"canceled", context.Canceled, true},
		{"transport", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBreakerSuccess(tt.err))
		})
	}
}
