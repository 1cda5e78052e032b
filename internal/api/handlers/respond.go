package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/wonny/nflepa/internal/s3_report"
	"github.com/wonny/nflepa/internal/s4_export"
)

// First season with published play-by-play
const firstSeason = 1999

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps pipeline failures onto HTTP status codes
func statusFor(err error) int {
	switch s3_report.KindOf(err) {
	case s3_report.KindInvalidID:
		return http.StatusBadRequest
	case s3_report.KindNotFound, s3_report.KindNoPlays:
		return http.StatusNotFound
	case s3_report.KindExcluded:
		return http.StatusUnprocessableEntity
	case s3_report.KindUpstream:
		return http.StatusBadGateway
	}

	if errors.Is(err, s4_export.ErrNoPlays) || errors.Is(err, s4_export.ErrNoSnapshot) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// parseSeason validates a {season} path value
func parseSeason(raw string) (int, error) {
	season, err := strconv.Atoi(raw)
	if err != nil || season < firstSeason || season > 2100 {
		return 0, fmt.Errorf("Invalid season: %s", raw)
	}
	return season, nil
}
