// Package server exposes the exchange loop over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/supportagent/supportagent/internal/agent"
	"github.com/supportagent/supportagent/internal/config"
	"github.com/supportagent/supportagent/internal/security"
	"github.com/supportagent/supportagent/internal/service"
	"github.com/supportagent/supportagent/internal/session"
	"github.com/supportagent/supportagent/internal/tools"
	"golang.org/x/sync/errgroup"
)

// Deps are the components built by the caller and shared with chat mode.
type Deps struct {
	Exchanger *agent.Exchanger
	Store     session.Store
	Registry  *tools.Registry
	Validator *security.InputValidator
	Documents *service.ElasticsearchService // nil when document search is disabled
}

type Server struct {
	cfg  *config.Config
	deps Deps
	http *http.Server
}

func New(cfg *config.Config, deps Deps) *Server {
	return &Server{cfg: cfg, deps: deps}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.routes(ctx),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(s.cfg.AgentTimeout+30) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Handler builds the router without listening. Used by tests.
func (s *Server) Handler(ctx context.Context) http.Handler {
	return s.routes(ctx)
}
