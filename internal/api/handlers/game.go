package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/nflepa/internal/contracts"
	"github.com/wonny/nflepa/pkg/logger"
)

// GameResolver builds single-game reports
type GameResolver interface {
	Resolve(ctx context.Context, gameID string) (*contracts.GameReport, error)
}

// GameHandler serves single-game analysis
type GameHandler struct {
	resolver GameResolver
	logger   *logger.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(resolver GameResolver, log *logger.Logger) *GameHandler {
	return &GameHandler{
		resolver: resolver,
		logger:   log,
	}
}

// GetGame returns the report of one game
// GET /api/games/{gameID}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	report, err := h.resolver.Resolve(r.Context(), gameID)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.WithError(err).WithField("game_id", gameID).Error("Failed to resolve game")
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}
