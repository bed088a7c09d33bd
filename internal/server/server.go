package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/config"
	"github.com/hublink/hublink/internal/tools"
)

// Server is the optional HTTP surface: a health endpoint plus catalog
// listing and invocation routes mirroring the primary stdio transport.
type Server struct {
	cfg  *config.Config
	http *http.Server
}

func New(cfg *config.Config, registry *tools.Registry, resolver TokenSource) (*Server, error) {
	s := &Server{cfg: cfg}

	router, err := s.setupRoutes(registry, resolver)
	if err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func (s *Server) Addr() string {
	return s.http.Addr
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
