package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/internal/pipelineconfig"
	"github.com/wonny/nflepa/internal/s1_filter"
	"github.com/wonny/nflepa/internal/s2_aggregate"
	"github.com/wonny/nflepa/internal/s4_export"
	"github.com/wonny/nflepa/pkg/logger"
)

// SeasonHandler serves season-level endpoints
// ⭐ SSOT: season API handlers live only in this struct
type SeasonHandler struct {
	source  contracts.SeasonSource
	lister  contracts.SeasonLister
	store   contracts.SnapshotStore // nil when persistence is off
	cfg     *pipelineconfig.Config
	logger  *logger.Logger
}

// NewSeasonHandler creates a new season handler; store may be nil
func NewSeasonHandler(
	source contracts.SeasonSource,
	lister contracts.SeasonLister,
	store contracts.SnapshotStore,
	cfg *pipelineconfig.Config,
	log *logger.Logger,
) *SeasonHandler {
	return &SeasonHandler{
		source:  source,
		lister:  lister,
		store:   store,
		cfg:     cfg,
		logger:  log,
	}
}

// GameChoice is one enumerated game option
type GameChoice struct {
	contracts.Game
	Label string `json:"label"`
}

// TeamsResponse is the season dashboard payload
type TeamsResponse struct {
	Season   int                   `json:"season"`
	Side     contracts.Side        `json:"side"`
	Profile  string                `json:"profile"`
	Plays    int                   `json:"plays"`
	Excluded map[string]int        `json:"excluded"`
	Teams    []contracts.TeamStats `json:"teams"`
}

// GetSeasons returns the seasons with published play-by-play
// GET /api/seasons
func (h *SeasonHandler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.lister.Seasons(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list seasons")
		respondError(w, http.StatusBadGateway, "Error loading data: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"seasons": seasons,
	})
}

// GetGames returns a season's games as enumerated choices
// GET /api/seasons/{season}/games?week=N
func (h *SeasonHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	season, err := parseSeason(mux.Vars(r)["season"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	week := 0
	if raw := r.URL.Query().Get("week"); raw != "" {
		week, err = strconv.Atoi(raw)
		if err != nil || week < 1 {
			respondError(w, http.StatusBadRequest, "Invalid week: "+raw)
			return
		}
	}

	schedule, err := h.source.Schedule(r.Context(), season)
	if err != nil {
		h.logger.WithError(err).WithField("season", season).Error("Failed to load schedule")
		respondError(w, http.StatusBadGateway, "Error loading data: "+err.Error())
		return
	}

	// only games the game profile can resolve are offered
	if h.cfg.ForMode(contracts.ModeGame).RegularSeasonOnly {
		schedule = schedule.RegularSeason()
	}

	games := schedule.Week(week)
	choices := make([]GameChoice, 0, len(games))
	for _, g := range games {
		choices = append(choices, GameChoice{Game: g, Label: g.Label()})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season": season,
		"weeks":  schedule.Weeks(),
		"games":  choices,
	})
}

// GetTeams returns the season dashboard for one side of the ball
// GET /api/seasons/{season}/teams/{side}
func (h *SeasonHandler) GetTeams(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	season, err := parseSeason(vars["season"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	side, ok := contracts.ParseSide(vars["side"])
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid side: "+vars["side"])
		return
	}

	mode := contracts.ModeInteractive
	if raw := r.URL.Query().Get("mode"); raw != "" {
		if mode, err = contracts.ParseMode(raw); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid mode: "+raw)
			return
		}
	}

	ctx := r.Context()
	plays, err := h.source.Plays(ctx, season)
	if err != nil {
		h.logger.WithError(err).WithField("season", season).Error("Failed to load play-by-play")
		respondError(w, http.StatusBadGateway, "Error loading data: "+err.Error())
		return
	}

	filtered := s1_filter.Filter(plays, h.cfg.ForMode(mode))
	if filtered.Count() == 0 {
		respondError(w, http.StatusNotFound, s4_export.ErrNoPlays.Error())
		return
	}

	rows := s2_aggregate.TeamStats(filtered.Plays, side)
	s2_aggregate.SortTeamStats(rows, side)

	teams, err := h.source.Teams(ctx)
	if err != nil {
		h.logger.WithError(err).Warn("Team descriptors unavailable, logos omitted")
	}
	s2_aggregate.AttachLogos(rows, contracts.NewTeamIndex(teams))

	respondJSON(w, http.StatusOK, TeamsResponse{
		Season:   season,
		Side:     side,
		Profile:  filtered.Profile,
		Plays:    filtered.Count(),
		Excluded: filtered.Excluded,
		Teams:    rows,
	})
}

// GetSnapshot returns the last persisted export of a season
// GET /api/seasons/{season}/snapshot
func (h *SeasonHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	season, err := parseSeason(mux.Vars(r)["season"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.store == nil {
		respondError(w, http.StatusNotFound, "Snapshot persistence is not configured")
		return
	}

	snapshot, err := h.store.Latest(r.Context(), season)
	if err != nil {
		status := statusFor(err)
		if status != http.StatusNotFound {
			h.logger.WithError(err).WithField("season", season).Error("Failed to load snapshot")
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}
