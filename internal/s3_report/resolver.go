package s3_report

import (
	"context"
	"time"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/internal/pipelineconfig"
	"github.com/wonny/nflepa/internal/s1_filter"
	"github.com/wonny/nflepa/internal/s2_aggregate"
	"github.com/wonny/nflepa/pkg/logger"
)

// Resolver builds single-game reports
// ⭐ SSOT: S0 → S1 → S2 orchestration for one game
type Resolver struct {
	source  contracts.SeasonSource
	profile pipelineconfig.FilterProfile
	players s2_aggregate.PlayerOptions
	logger  *logger.Logger
}

// NewResolver creates a resolver that filters with the game profile
func NewResolver(source contracts.SeasonSource, cfg *pipelineconfig.Config, log *logger.Logger) *Resolver {
	return &Resolver{
		source:  source,
		profile: cfg.ForMode(contracts.ModeGame),
		players: s2_aggregate.PlayerOptionsFrom(cfg.Players),
		logger:  log.WithField("module", "game_report"),
	}
}

// Resolve loads, filters and aggregates one game.
// Every failure is an *Error carrying a user-facing message.
func (r *Resolver) Resolve(ctx context.Context, gameID string) (*contracts.GameReport, error) {
	start := time.Now()

	id, err := ParseGameID(gameID)
	if err != nil {
		return nil, err
	}

	schedule, err := r.source.Schedule(ctx, id.Season)
	if err != nil {
		return nil, upstream(err)
	}

	game, ok := schedule.Find(gameID)
	if !ok {
		return nil, notFound(gameID, id.Season)
	}
	if r.profile.RegularSeasonOnly && game.Postseason() {
		return nil, postseason(gameID, game.GameType)
	}

	plays, err := r.source.Plays(ctx, id.Season)
	if err != nil {
		return nil, upstream(err)
	}

	filtered := s1_filter.Filter(contracts.ForGame(plays, gameID), r.profile)
	if filtered.Count() == 0 {
		return nil, noPlays(gameID)
	}

	report := &contracts.GameReport{
		Game: r.gameInfo(ctx, game),
		TeamStats: contracts.HomeAway[contracts.SplitTable]{
			Home: s2_aggregate.TeamSplits(filtered.Plays, game.HomeTeam),
			Away: s2_aggregate.TeamSplits(filtered.Plays, game.AwayTeam),
		},
		PlayerStats: contracts.HomeAway[contracts.PlayerTables]{
			Home: s2_aggregate.PlayerTables(filtered.Plays, game.HomeTeam, r.players),
			Away: s2_aggregate.PlayerTables(filtered.Plays, game.AwayTeam, r.players),
		},
		Profile: filtered.Profile,
		Plays:   filtered.Count(),
		Sample:  contracts.Samples(filtered.Plays, contracts.SampleSize),
	}

	r.logger.WithFields(map[string]interface{}{
		"game_id":  gameID,
		"plays":    filtered.Count(),
		"excluded": filtered.Excluded,
		"duration": time.Since(start).String(),
	}).Info("Game report built")

	return report, nil
}

// gameInfo fills the metadata block; logos are best effort
func (r *Resolver) gameInfo(ctx context.Context, game contracts.Game) contracts.GameInfo {
	info := contracts.GameInfo{
		GameID:    game.GameID,
		Season:    game.Season,
		Week:      game.Week,
		GameType:  game.GameType,
		Gameday:   game.Gameday,
		HomeTeam:  game.HomeTeam,
		AwayTeam:  game.AwayTeam,
		HomeScore: game.HomeScore,
		AwayScore: game.AwayScore,
	}

	teams, err := r.source.Teams(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("Team descriptors unavailable, logos omitted")
		return info
	}

	index := contracts.NewTeamIndex(teams)
	info.HomeLogo = index.Logo(game.HomeTeam)
	info.AwayLogo = index.Logo(game.AwayTeam)
	return info
}
