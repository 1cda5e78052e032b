package s0_data

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/pkg/config"
	"github.com/wonny/nflepa/pkg/httputil"
	"github.com/wonny/nflepa/pkg/logger"
)

// Play-by-play release formats
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Client downloads nflverse release assets
// ⭐ SSOT: every nflverse download goes through this client
type Client struct {
	httpClient *httputil.Client
	breaker    *gobreaker.CircuitBreaker
	cfg        config.NFLVerseConfig
	logger     *logger.Logger
}

// NewClient creates a new nflverse client
func NewClient(httpClient *httputil.Client, cfg *config.Config, log *logger.Logger) *Client {
	log = log.WithField("module", "nflverse")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nflverse",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("nflverse circuit breaker state changed")
		},
	})

	return &Client{
		httpClient: httpClient,
		breaker:    cb,
		cfg:        cfg.NFLVerse,
		logger:     log,
	}
}

// isBreakerSuccess keeps 4xx answers (a season that does not exist yet)
// from tripping the breaker; only transport errors and 5xx count.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < http.StatusInternalServerError && statusErr.StatusCode != http.StatusTooManyRequests
	}
	return errors.Is(err, context.Canceled)
}

// fetch downloads a URL through the circuit breaker
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.httpClient.GetBody(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	body := out.([]byte)
	c.logger.WithFields(map[string]interface{}{
		"url":      url,
		"bytes":    len(body),
		"duration": time.Since(start).String(),
	}).Debug("Downloaded asset")

	return body, nil
}

// PlaysURL returns the play-by-play asset URL for a season
func (c *Client) PlaysURL(season int) string {
	ext := "csv.gz"
	if c.cfg.PBPFormat == FormatParquet {
		ext = "parquet"
	}
	return fmt.Sprintf("%s/play_by_play_%d.%s", strings.TrimRight(c.cfg.PBPBaseURL, "/"), season, ext)
}

// FetchPlays downloads and decodes one season of play-by-play
func (c *Client) FetchPlays(ctx context.Context, season int) ([]contracts.Play, error) {
	url := c.PlaysURL(season)
	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download play-by-play %d: %w", season, err)
	}

	var plays []contracts.Play
	if c.cfg.PBPFormat == FormatParquet {
		plays, err = ParsePlaysParquet(body)
	} else {
		plays, err = ParsePlaysCSV(bytes.NewReader(body))
	}
	if err != nil {
		return nil, fmt.Errorf("decode play-by-play %d: %w", season, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"season": season,
		"format": c.cfg.PBPFormat,
		"plays":  len(plays),
	}).Info("Loaded play-by-play")

	return plays, nil
}

// FetchSchedule downloads the schedule table and keeps one season
func (c *Client) FetchSchedule(ctx context.Context, season int) (*contracts.Schedule, error) {
	body, err := c.fetch(ctx, c.cfg.ScheduleURL)
	if err != nil {
		return nil, fmt.Errorf("download schedule: %w", err)
	}

	games, err := ParseScheduleCSV(bytes.NewReader(body), season)
	if err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"season": season,
		"games":  len(games),
	}).Debug("Loaded schedule")

	return &contracts.Schedule{Season: season, Games: games}, nil
}

// FetchTeams downloads the team descriptor table
func (c *Client) FetchTeams(ctx context.Context) ([]contracts.TeamDescriptor, error) {
	body, err := c.fetch(ctx, c.cfg.TeamsURL)
	if err != nil {
		return nil, fmt.Errorf("download teams: %w", err)
	}

	teams, err := ParseTeamsCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode teams: %w", err)
	}

	return teams, nil
}

// ListSeasons scrapes the release asset listing for available seasons
func (c *Client) ListSeasons(ctx context.Context) ([]int, error) {
	body, err := c.fetch(ctx, c.cfg.ReleasesURL)
	if err != nil {
		return nil, fmt.Errorf("download release listing: %w", err)
	}

	seasons, err := ParseSeasonAssets(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse release listing: %w", err)
	}

	return seasons, nil
}

// BreakerState reports the circuit breaker state (status command)
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}
