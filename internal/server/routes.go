package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/handler"
	"github.com/hublink/hublink/internal/middleware"
	"github.com/hublink/hublink/internal/tools"
)

// TokenSource mirrors the resolver interface the health handler checks.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

func (s *Server) setupRoutes(registry *tools.Registry, resolver TokenSource) (http.Handler, error) {
	cfg := s.cfg

	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("auth_mode", string(mode)).
		Int("tools", len(registry.List())).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Msg("service configuration")

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	healthH := handler.NewHealthHandler(resolver, string(mode))
	toolsH := handler.NewToolsHandler(registry)

	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	// Auth + rate limiting for API routes
	apiMiddleware := []func(http.Handler) http.Handler{
		middleware.RateLimit(cfg.RateLimitPerMinute),
	}
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/tools", toolsH.List)
			r.Post("/tools/{tool_name}", toolsH.Invoke)
		})
	})

	return r, nil
}
