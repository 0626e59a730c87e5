package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/supportagent/supportagent/internal/config"
	"github.com/supportagent/supportagent/internal/handler"
	"github.com/supportagent/supportagent/internal/middleware"
)

func (s *Server) routes(ctx context.Context) http.Handler {
	cfg := s.cfg

	// ─── Handlers ────────────────────────────────────────────────────────────────
	var es handler.HealthChecker
	if s.deps.Documents != nil {
		es = s.deps.Documents
	}
	var pinger handler.Pinger
	if p, ok := s.deps.Store.(handler.Pinger); ok {
		pinger = p
	}
	healthH := handler.NewHealthHandler(pinger, es)
	chatH := handler.NewChatHandler(s.deps.Exchanger, s.deps.Validator, int64(cfg.MaxConcurrentExchanges), cfg.AgentTimeout)
	sessionsH := handler.NewSessionsHandler(s.deps.Store)
	toolsH := handler.NewToolsHandler(s.deps.Registry)

	log.Info().
		Strs("tools", s.deps.Registry.Names()).
		Bool("document_search", s.deps.Documents != nil).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Int("max_concurrent_exchanges", cfg.MaxConcurrentExchanges).
		Msg("service configuration")
	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("auth enabled but no API keys configured - API routes are open")
	}

	// ─── Router ──────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins, config.DefaultCORSMaxAge)))
	r.Use(chiMiddleware.RealIP)

	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitPerMinute, cfg.APIKeyHeader))
		if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
			r.Use(middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Post("/chat", chatH.Chat)
			r.Get("/sessions", sessionsH.List)
			r.Get("/sessions/{session_id}", sessionsH.Get)
			r.Get("/tools", toolsH.List)
		})
	})

	return r
}
