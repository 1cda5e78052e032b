package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/wonny/nflepa/pkg/config"
	"github.com/wonny/nflepa/pkg/logger"
)

// drainTimeout bounds in-flight requests after the run context ends
const drainTimeout = 30 * time.Second

// Server serves the JSON API until its run context is cancelled
// ⭐ SSOT: HTTP server settings live only in this file
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// New builds a server listening on cfg.Port
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// a cold season load downloads the whole play-by-play file
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  time.Minute,
		},
		log: log.WithField("module", "api"),
	}
}

// Run listens until ctx ends, then drains in-flight requests.
// A listen failure is returned immediately.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("API server listening")
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	case <-ctx.Done():
	}

	s.log.Info("Draining API server")
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain API server: %w", err)
	}
	return nil
}
