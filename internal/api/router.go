package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wonny/nflepa/internal/api/handlers"
	"github.com/wonny/nflepa/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routes are registered only in this function
func NewRouter(seasonHandler *handlers.SeasonHandler, gameHandler *handlers.GameHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Season endpoints
	api.HandleFunc("/seasons", seasonHandler.GetSeasons).Methods("GET")
	api.HandleFunc("/seasons/{season:[0-9]+}/games", seasonHandler.GetGames).Methods("GET")
	api.HandleFunc("/seasons/{season:[0-9]+}/teams/{side}", seasonHandler.GetTeams).Methods("GET")
	api.HandleFunc("/seasons/{season:[0-9]+}/snapshot", seasonHandler.GetSnapshot).Methods("GET")

	// Game endpoints
	api.HandleFunc("/games/{gameID}", gameHandler.GetGame).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found: "+req.URL.Path)
	})

	r.Use(requestID, accessLog(log), recoverPanics(log))

	return r
}

const requestIDHeader = "X-Request-ID"

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": "nflepa-api"})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// requestID echoes X-Request-ID or assigns a fresh one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// accessLog logs one line per request; 5xx at error level
func accessLog(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			entry := log.WithFields(logger.Fields{
				"request_id": r.Header.Get(requestIDHeader),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
			})
			if rec.status >= http.StatusInternalServerError {
				entry.Error("HTTP request failed")
				return
			}
			entry.Debug("HTTP request")
		})
	}
}

// recoverPanics turns a handler panic into a JSON 500
func recoverPanics(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					log.WithFields(logger.Fields{
						"panic":      p,
						"path":       r.URL.Path,
						"request_id": r.Header.Get(requestIDHeader),
					}).Error("Panic recovered")
					writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
