// Command hublink serves a HubSpot CRM tool catalog to agents, over stdio
// by default or over HTTP with the http subcommand.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hublink/hublink/internal/auth"
	"github.com/hublink/hublink/internal/config"
	"github.com/hublink/hublink/internal/hubspot"
	"github.com/hublink/hublink/internal/security"
	"github.com/hublink/hublink/internal/server"
	"github.com/hublink/hublink/internal/service"
	"github.com/hublink/hublink/internal/tools"
)

const version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:     "hublink",
		Short:   "HubSpot CRM tool server for AI agents",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio()
		},
	}

	httpCmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the tool catalog over HTTP instead of stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTTP()
		},
	}
	root.AddCommand(httpCmd)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

// bootstrap loads config, wires logging and builds the tool catalog. Fatal
// configuration problems surface here, before any transport starts.
func bootstrap() (*config.Config, *auth.Resolver, *tools.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	setupLogging(cfg.LogLevel)

	resolver, err := auth.FromConfig(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	client := hubspot.New(cfg.HubSpotBaseURL, cfg.RequestTimeout(), resolver)
	registry, err := tools.BuildRegistry(tools.Services{
		Companies: service.NewCompanyService(client),
		Contacts:  service.NewContactService(client),
		Lists:     service.NewListService(client),
		Deals:     service.NewDealService(client),
		Tickets:   service.NewTicketService(client),
	}, security.NewAuditLogger(cfg.EnableAuditLogging))
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, resolver, registry, nil
}

// setupLogging writes to stderr; on the stdio transport, stdout belongs to
// the protocol.
func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func runStdio() error {
	_, _, registry, err := bootstrap()
	if err != nil {
		return err
	}
	return server.ServeStdio(server.NewMCP(registry, version))
}

func runHTTP() error {
	cfg, resolver, registry, err := bootstrap()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, registry, resolver)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("addr", srv.Addr()).Msg("http transport listening")
	return srv.Run(ctx)
}
